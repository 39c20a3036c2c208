package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/hierarchy"
)

func newHierarchyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <class>",
		Short: "Print a class and its supertypes, supertypes first",
		Long: `Print every class reachable through superclass and interface links,
one per line, each after all of its own supertypes. Classes missing from
the classpath are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.openPath()
			if err != nil {
				return err
			}
			defer path.Close()
			completer := a.newCompleter(path)

			root, err := completer.Load(args[0])
			if err := completer.Err(); err != nil {
				return err
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			h, err := hierarchy.Build(root)
			if err != nil {
				return err
			}
			order, err := h.Order()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, sym := range order {
				if sym.IsMissing() {
					fmt.Fprintf(out, "%s\tmissing\n", sym.FlatName())
					continue
				}
				fmt.Fprintln(out, sym.FlatName())
			}
			return completer.Err()
		},
	}
}
