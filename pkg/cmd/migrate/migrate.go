package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/getsentry/sentry-go"
	pkgerrors "github.com/pkg/errors"
	"github.com/savioxavier/termlink"
	"github.com/sirupsen/logrus"
	"github.com/sndtools/snd/pkg/config"
	"github.com/sndtools/snd/pkg/helpers"
	"github.com/sndtools/snd/pkg/macrostore"
	migration "github.com/sndtools/snd/pkg/migrate"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	source  sourceOptions
	yes     bool
	only    []string
	exclude []string
	store   string
	details bool
	stdout  io.Writer
	logger  logrus.FieldLogger

	// selectMacros replaces the interactive prompt in tests.
	selectMacros func(rs *migration.ResultSet) (bool, error)
}

func NewCmdMigrate() *cobra.Command {
	var opts migrateOptions

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import macros from a legacy SomethingNeedDoing configuration",
		Long: "Preview the macros stored in a legacy SomethingNeedDoing configuration, choose which to keep, " +
			"and import them into the macro store.\n\n" +
			"The configuration is read from --input or the clipboard when given, falling back to the legacy config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			runOpts := opts
			runOpts.stdout = cmd.OutOrStdout()
			return silenceReported(cmd, runMigrate(cmd.Context(), runOpts))
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags, &opts.source)
	flags.BoolVar(&opts.yes, "yes", false, "Import without prompting")
	flags.StringArrayVar(&opts.only, "only", nil, "Import only the named macro (repeatable)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "Do not import the named macro (repeatable)")
	flags.StringVar(&opts.store, "store", "", "Macro store file (.yaml, .json or .toml)")
	flags.BoolVar(&opts.details, "details", false, "Show macro content and settings in the preview")

	cmd.AddCommand(NewCmdPreview())

	return cmd
}

func runMigrate(ctx context.Context, opts migrateOptions) error {
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

	rs := session.Results()
	renderPreview(out, rs, opts.details)
	if rs.Len() == 0 {
		return nil
	}

	if err := applySelection(rs, opts.only, opts.exclude); err != nil {
		return err
	}

	if !opts.yes {
		choose := opts.selectMacros
		if choose == nil {
			if !helpers.IsTerminal() {
				return fmt.Errorf("interactive mode requires a terminal; rerun with --yes")
			}
			choose = promptSelection
		}

		proceed, err := choose(rs)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(out, "Migration cancelled.")
			return nil
		}
	}

	if rs.SelectedCount() == 0 {
		fmt.Fprintln(out, "No macros selected. Nothing to import.")
		return nil
	}

	storePath := opts.store
	if strings.TrimSpace(storePath) == "" {
		storePath = config.MacroStorePath()
	}
	store, err := macrostore.Open(storePath)
	if err != nil {
		return err
	}

	n, err := session.Commit(store)
	if err != nil {
		fmt.Fprintf(out, "Failed to import macros: %s\n", pkgerrors.Cause(err))
		return reportedError{err}
	}

	fmt.Fprintln(out, "Selected macros imported successfully!")
	fmt.Fprintf(out, "- Macros imported: %d\n", n)
	fmt.Fprintf(out, "- Macro store: %s\n", termlink.Link(store.Path(), "file://"+store.Path()))
	return nil
}

// openSession loads and previews the legacy document. An invalid preview is
// rendered to out and returned as an error.
func openSession(source sourceOptions, log logrus.FieldLogger, out io.Writer) (*migration.Session, error) {
	text, err := source.sourceText(log)
	if err != nil {
		return nil, err
	}

	session := migration.NewSession(
		migration.NewLoader(source.legacyPath(), log),
		migration.ParseOptions{Logger: log},
	)
	if !session.Open(text) {
		if !pkgerrors.Is(session.Err(), migration.ErrNoDocument) {
			sentry.CaptureException(session.Err())
		}
		renderFailure(out, session.ErrorMessage())
		return nil, reportedError{errors.New(session.ErrorMessage())}
	}
	log.WithField("source", session.Source()).Info("Loaded legacy configuration")

	return session, nil
}

// reportedError is a failure already rendered to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// silenceReported keeps cobra from printing an error the command already
// rendered.
func silenceReported(cmd *cobra.Command, err error) error {
	var reported reportedError
	if errors.As(err, &reported) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
	}
	return err
}

// applySelection narrows the default "import everything" selection.
func applySelection(rs *migration.ResultSet, only, exclude []string) error {
	if len(only) > 0 {
		rs.SelectAll(false)
		for _, name := range only {
			if err := rs.ToggleSelection(name, true); err != nil {
				return fmt.Errorf("--only: %w", err)
			}
		}
	}

	for _, name := range exclude {
		if err := rs.ToggleSelection(name, false); err != nil {
			return fmt.Errorf("--exclude: %w", err)
		}
	}
	return nil
}

func promptSelection(rs *migration.ResultSet) (bool, error) {
	options := make([]huh.Option[string], 0, rs.Len())
	for _, e := range rs.Entries() {
		label := fmt.Sprintf("%s in %s", entryLabel(e), e.Macro.FolderPath)
		options = append(options, huh.NewOption(label, e.Name).Selected(e.Selected))
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select macros to import").
				Description("Review the macros that will be imported from the old configuration.").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to select macros: %w", err)
	}

	rs.SelectAll(false)
	for _, name := range selected {
		if err := rs.ToggleSelection(name, true); err != nil {
			return false, err
		}
	}
	return true, nil
}
