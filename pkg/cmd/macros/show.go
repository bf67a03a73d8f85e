package macros

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/macrostore"
	"github.com/spf13/cobra"
)

func NewCmdShow() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a stored macro and its settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := macrostore.Open(resolveStorePath(storePath))
			if err != nil {
				return err
			}

			found := false
			for _, m := range store.Macros() {
				if m.Name != args[0] {
					continue
				}
				if found {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), describe(m))
				found = true
			}
			if !found {
				return errors.Errorf("macro %q not found in %s", args[0], store.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "Macro store file")

	return cmd
}
