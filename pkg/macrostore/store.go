// Package macrostore persists migrated macros to a single file. The encoding
// follows the file extension: YAML (default), JSON or TOML.
package macrostore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/macro"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return "yaml"
	}
}

// FormatFromPath picks the encoding for a store file.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

type storeFile struct {
	Macros []macro.Macro `json:"macros" yaml:"macros" toml:"macros"`
}

// Store is a file-backed macro collection. Added macros are held in memory
// until Save.
type Store struct {
	path   string
	format Format
	macros []macro.Macro
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, format: FormatFromPath(path)}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrapf(err, "failed to read macro store %s", path)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return s, nil
	}

	var f storeFile
	switch s.format {
	case FormatJSON:
		err = json.Unmarshal(content, &f)
	case FormatTOML:
		err = toml.Unmarshal(content, &f)
	default:
		err = yaml.Unmarshal(content, &f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse macro store %s", path)
	}

	s.macros = f.Macros
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Format() Format { return s.format }

// Add appends a copy of m, assigning an ID if it has none.
func (s *Store) Add(m *macro.Macro) {
	c := *m
	c.Metadata.TriggerEvents = append([]macro.TriggerEvent{}, m.Metadata.TriggerEvents...)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.macros = append(s.macros, c)
}

// Macros returns the stored macros in the order they were added.
func (s *Store) Macros() []macro.Macro {
	return append([]macro.Macro(nil), s.macros...)
}

func (s *Store) Len() int { return len(s.macros) }

// Save writes the whole store to disk.
func (s *Store) Save() error {
	f := storeFile{Macros: s.macros}
	if f.Macros == nil {
		f.Macros = []macro.Macro{}
	}

	var (
		content []byte
		err     error
	)
	switch s.format {
	case FormatJSON:
		content, err = json.MarshalIndent(f, "", "  ")
	case FormatTOML:
		content, err = toml.Marshal(f)
	default:
		content, err = yaml.Marshal(f)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode macro store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create macro store directory")
	}

	if err := os.WriteFile(s.path, content, 0600); err != nil {
		return errors.Wrapf(err, "failed to write macro store %s", s.path)
	}
	return nil
}
