package migrate

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	source  sourceOptions
	output  string
	details bool
	drift   bool
	stdout  io.Writer
	logger  logrus.FieldLogger
}

func NewCmdPreview() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the macros a migration would import without importing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			runOpts := opts
			runOpts.stdout = cmd.OutOrStdout()
			return silenceReported(cmd, runPreview(runOpts))
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags, &opts.source)
	flags.StringVarP(&opts.output, "output", "o", "", "Output format (text, json, csv)")
	flags.BoolVar(&opts.details, "details", false, "Show macro content and settings")
	flags.BoolVar(&opts.drift, "drift", false, "List fields that do not match the expected legacy layout")

	return cmd
}

func runPreview(opts previewOptions) error {
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}
	log := opts.logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	session, err := openSession(opts.source, log, out)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := writePreview(out, session.Results(), opts.output, opts.details); err != nil {
		return err
	}

	if opts.drift {
		renderDrift(out, session.Drift())
	}
	return nil
}
