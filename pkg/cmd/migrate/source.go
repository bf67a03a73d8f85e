package migrate

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sndtools/snd/pkg/config"
	"github.com/spf13/pflag"
)

// sourceOptions select where the legacy document is read from.
type sourceOptions struct {
	input         string
	fromClipboard bool
	pluginDir     string
	legacyFile    string

	stdin         io.Reader
	readClipboard func() (string, error)
}

func addSourceFlags(flags *pflag.FlagSet, opts *sourceOptions) {
	flags.StringVar(&opts.input, "input", "", "Read the legacy configuration from a file (- for stdin)")
	flags.BoolVar(&opts.fromClipboard, "from-clipboard", false, "Read the legacy configuration from the clipboard")
	flags.StringVar(&opts.pluginDir, "plugin-dir", "", "Legacy plugin configuration directory")
	flags.StringVar(&opts.legacyFile, "legacy-file", "", "Path to the legacy configuration file (overrides --plugin-dir)")
}

// sourceText returns the text to try before the legacy config file. An empty
// string means the config file alone is used.
func (o sourceOptions) sourceText(log logrus.FieldLogger) (string, error) {
	switch {
	case o.input == "-":
		in := o.stdin
		if in == nil {
			in = os.Stdin
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(b), nil
	case o.input != "":
		b, err := os.ReadFile(o.input)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", o.input)
		}
		return string(b), nil
	case o.fromClipboard:
		read := o.readClipboard
		if read == nil {
			read = clipboard.ReadAll
		}
		text, err := read()
		if err != nil {
			log.WithError(err).Warn("Failed to read clipboard")
			return "", nil
		}
		return text, nil
	default:
		return "", nil
	}
}

// legacyPath is the config file consulted when the supplied text is missing
// or unusable.
func (o sourceOptions) legacyPath() string {
	if strings.TrimSpace(o.legacyFile) != "" {
		return o.legacyFile
	}
	if strings.TrimSpace(o.pluginDir) != "" {
		return filepath.Join(o.pluginDir, config.LegacyConfigFileName)
	}
	return config.LegacyConfigPath()
}
