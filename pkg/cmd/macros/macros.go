// Inspects the macro store.
package macros

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCmdMacros() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macros",
		Aliases: []string{"m"},
		Short:   "Display macros saved in the macro store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("missing subcommand, please run `snd macros --help`")
		},
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdShow())

	return cmd
}
