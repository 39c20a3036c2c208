package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.openPath()
			if err != nil {
				return err
			}
			server := lsp.NewServer(path, version, a.completerOptions()...)
			return server.RunStdio()
		},
	}
}
