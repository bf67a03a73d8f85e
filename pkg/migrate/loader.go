package migrate

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sndtools/snd/pkg/legacy"
)

// NoDocumentMessage is shown when neither source yields a document.
const NoDocumentMessage = "No valid configuration found in clipboard or config file"

var ErrNoDocument = errors.New("no valid configuration found in clipboard or config file")

// Document is a decoded legacy configuration and where it came from.
type Document struct {
	Value  legacy.Value
	Raw    []byte
	Source string
}

// DocumentLoader supplies the legacy document for a migration session.
type DocumentLoader interface {
	Load(text string) (*Document, error)
}

// Loader reads the legacy document from supplied text, falling back to the
// legacy config file.
type Loader struct {
	Path   string
	Logger logrus.FieldLogger
}

func NewLoader(path string, logger logrus.FieldLogger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{Path: path, Logger: logger}
}

// Load tries text first, then the config file. Malformed input from either
// source is logged and skipped; ErrNoDocument is returned when both are
// exhausted.
func (l *Loader) Load(text string) (*Document, error) {
	if strings.TrimSpace(text) != "" {
		raw := []byte(text)
		doc, err := legacy.Parse(raw)
		switch {
		case err != nil:
			l.Logger.WithError(err).Warn("Failed to parse supplied text as JSON")
		case doc.IsNull():
			l.Logger.Warn("Supplied text is a null document")
		default:
			return &Document{Value: doc, Raw: raw, Source: "text"}, nil
		}
	}

	if l.Path == "" {
		return nil, ErrNoDocument
	}

	if _, err := os.Stat(l.Path); err != nil {
		if !os.IsNotExist(err) {
			l.Logger.WithError(err).WithField("path", l.Path).Warn("Failed to inspect config file")
		}
		return nil, ErrNoDocument
	}

	l.Logger.WithField("path", l.Path).Info("Reading config")
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		l.Logger.WithError(err).WithField("path", l.Path).Warn("Failed to read config file")
		return nil, ErrNoDocument
	}

	doc, err := legacy.Parse(raw)
	if err != nil {
		l.Logger.WithError(err).WithField("path", l.Path).Warn("Failed to parse config file as JSON")
		return nil, ErrNoDocument
	}
	if doc.IsNull() {
		l.Logger.WithField("path", l.Path).Warn("Config file is a null document")
		return nil, ErrNoDocument
	}

	return &Document{Value: doc, Raw: raw, Source: l.Path}, nil
}
