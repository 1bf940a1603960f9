package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "Print the effective builtin names, one per line",
		Long: `Print every name that is never reported as undefined: the default catalog,
[builtins].names and the contents of [builtins].file and --builtins files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			set, err := loadBuiltins(cmd.Context(), settings)
			if err != nil {
				return err
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, name := range set.Names() {
				if _, err := fmt.Fprintln(w, name); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
