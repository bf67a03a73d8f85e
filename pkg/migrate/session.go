package migrate

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sndtools/snd/pkg/legacy"
)

var ErrSessionNotReady = errors.New("migration session has no valid preview")

// Session owns the state of one migration preview, from opening the preview
// until it is committed or closed.
type Session struct {
	loader DocumentLoader
	opts   ParseOptions
	log    logrus.FieldLogger

	open         bool
	results      *ResultSet
	valid        bool
	err          error
	errorMessage string
	source       string
	drift        []legacy.Drift
}

func NewSession(loader DocumentLoader, opts ParseOptions) *Session {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
		opts.Logger = log
	}
	return &Session{
		loader:  loader,
		opts:    opts,
		log:     log,
		results: NewResultSet(),
	}
}

// Open rebuilds the preview from scratch using text, or the legacy config
// file when text is empty or malformed. It reports whether the preview is
// valid.
func (s *Session) Open(text string) bool {
	s.open = true
	s.results = NewResultSet()
	s.valid = false
	s.err = nil
	s.errorMessage = ""
	s.source = ""
	s.drift = nil

	doc, err := s.loader.Load(text)
	if err != nil {
		s.fail(err, NoDocumentMessage)
		return false
	}
	s.source = doc.Source

	if drift, err := legacy.Diagnose(doc.Raw); err != nil {
		s.log.WithError(err).Debug("Skipping schema diagnostics")
	} else {
		for _, d := range drift {
			s.log.WithField("field", d.Field).Info(d.Description)
		}
		s.drift = drift
	}

	rs, err := Parse(doc.Value, s.opts)
	if err != nil {
		s.log.WithError(err).Error("Failed to preview migration")
		s.fail(err, "Error previewing migration: "+err.Error())
		return false
	}

	s.results = rs
	s.valid = true
	return true
}

func (s *Session) fail(err error, message string) {
	s.valid = false
	s.err = err
	s.errorMessage = message
}

func (s *Session) IsOpen() bool { return s.open }

func (s *Session) Valid() bool { return s.valid }

// Err is the error behind an invalid preview.
func (s *Session) Err() error { return s.err }

func (s *Session) ErrorMessage() string { return s.errorMessage }

// Source describes where the previewed document was read from.
func (s *Session) Source() string { return s.source }

// Drift lists schema drift found in the previewed document.
func (s *Session) Drift() []legacy.Drift { return s.drift }

func (s *Session) Results() *ResultSet { return s.results }

// Commit imports the selected macros into store and closes the session.
func (s *Session) Commit(store Store) (int, error) {
	if !s.open || !s.valid {
		return 0, ErrSessionNotReady
	}
	defer s.Close()
	return Commit(s.results, store)
}

// Close discards the preview.
func (s *Session) Close() {
	s.open = false
	s.valid = false
	s.results = NewResultSet()
}
