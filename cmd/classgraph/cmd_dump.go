package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/format"
)

var log = commonlog.GetLogger("classgraph.cli")

func newDumpCmd(a *app) *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <class>...",
		Short: "Print the resolved symbols of classes given by flat name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			path, err := a.openPath()
			if err != nil {
				return err
			}
			defer path.Close()
			completer := a.newCompleter(path)

			for _, name := range args {
				sym, err := completer.Load(name)
				if err := completer.Err(); err != nil {
					return err
				}
				if err != nil {
					log.Warning("class is missing", "class", name, "error", err)
				}
				if err := enc.Encode(sym); err != nil {
					return fmt.Errorf("encode %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}
