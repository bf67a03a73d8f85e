package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configureCmd "github.com/sndtools/snd/pkg/cmd/configure"
	macrosCmd "github.com/sndtools/snd/pkg/cmd/macros"
	migrateCmd "github.com/sndtools/snd/pkg/cmd/migrate"
	versionCmd "github.com/sndtools/snd/pkg/cmd/version"
	"github.com/sndtools/snd/pkg/config"
	"github.com/sndtools/snd/pkg/debuglog"
)

func NewCmdRoot(version, buildDate string) *cobra.Command {
	var verbose bool

	var cmd = &cobra.Command{
		Use:          "snd <command> [flags]",
		Short:        "SomethingNeedDoing macro tools",
		SilenceUsage: true,

		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Usage()
		},

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			switch {
			case debuglog.Debug:
				logrus.SetLevel(logrus.TraceLevel)
			case verbose:
				logrus.SetLevel(logrus.DebugLevel)
			default:
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	// Initialize config
	if err := config.NewConfig(); err != nil {
		logrus.WithError(err).Warn("Failed to load config")
	}

	formattedVersion := versionCmd.Format(version, buildDate)
	cmd.SetVersionTemplate(formattedVersion)
	cmd.Version = formattedVersion
	cmd.Flags().Bool("version", false, "Print the version and exit")

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", os.Getenv("SND_VERBOSE") != "", "Show migration progress logs")

	// Child commands
	cmd.AddCommand(migrateCmd.NewCmdMigrate())
	cmd.AddCommand(macrosCmd.NewCmdMacros())
	cmd.AddCommand(configureCmd.NewCmdConfigure())
	cmd.AddCommand(versionCmd.NewCmdVersion(version, buildDate))

	return cmd
}
