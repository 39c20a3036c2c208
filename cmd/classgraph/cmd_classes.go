package main

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/classpath"
)

func newClassesCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes on the classpath by flat name",
		Long: `List the classes on the classpath by flat name.

Patterns separate segments by dots:
  classgraph classes -m 'com.acme.*'     # classes of com.acme
  classgraph classes -m 'com.acme.**'    # also subpackages and nested classes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var match glob.Glob
			if pattern != "" {
				var err error
				if match, err = classpath.CompileMatch(pattern); err != nil {
					return err
				}
			}

			path, err := a.openPath()
			if err != nil {
				return err
			}
			defer path.Close()

			names, err := path.List(match)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "match", "m", "", "only list classes matching this pattern")

	return cmd
}
