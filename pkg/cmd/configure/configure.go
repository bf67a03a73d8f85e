package configure

import (
	"fmt"
	"path/filepath"

	"github.com/sndtools/snd/pkg/config"
	"github.com/sndtools/snd/pkg/macrostore"
	"github.com/spf13/cobra"
)

func NewCmdConfigure() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change where snd looks for macros",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-plugin-dir <dir>",
		Short: "Set the legacy plugin configuration directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := config.SetPluginConfigDirectory(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plugin config directory set to %s\n", dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-store <file>",
		Short: "Set the macro store file (.yaml, .json or .toml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := config.SetMacroStorePath(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Macro store set to %s (%s)\n", path, macrostore.FormatFromPath(path))
			return nil
		},
	})

	return cmd
}

func showConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file:           %s\n", config.ConfigFile())
	fmt.Fprintf(out, "Plugin config dir:     %s\n", config.GetPluginConfigDirectory())
	fmt.Fprintf(out, "Legacy config file:    %s\n", config.LegacyConfigPath())
	fmt.Fprintf(out, "Macro store:           %s\n", config.MacroStorePath())
	return nil
}
