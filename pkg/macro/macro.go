package macro

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// RootFolderName is used when a legacy root folder carries no usable name.
const RootFolderName = "/"

// UnknownName is substituted for macros that have no name.
const UnknownName = "Unknown"

// Type is the scripting language a macro is written in.
type Type int

const (
	Native Type = iota
	Lua
)

func (t Type) String() string {
	switch t {
	case Native:
		return "Native"
	case Lua:
		return "Lua"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

func (t Type) MarshalText() ([]byte, error) {
	switch t {
	case Native, Lua:
		return []byte(t.String()), nil
	default:
		return nil, errors.Errorf("unknown macro type %d", int(t))
	}
}

func (t *Type) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Native", "native":
		*t = Native
	case "Lua", "lua":
		*t = Lua
	default:
		return errors.Errorf("unknown macro type %q", string(text))
	}
	return nil
}

// TriggerEvent is a condition that invokes a macro automatically.
type TriggerEvent int

const (
	OnAutoRetainerCharacterPostProcess TriggerEvent = iota + 1
)

func (e TriggerEvent) String() string {
	switch e {
	case OnAutoRetainerCharacterPostProcess:
		return "OnAutoRetainerCharacterPostProcess"
	default:
		return "TriggerEvent(" + strconv.Itoa(int(e)) + ")"
	}
}

func (e TriggerEvent) MarshalText() ([]byte, error) {
	if e != OnAutoRetainerCharacterPostProcess {
		return nil, errors.Errorf("unknown trigger event %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *TriggerEvent) UnmarshalText(text []byte) error {
	if string(text) != OnAutoRetainerCharacterPostProcess.String() {
		return errors.Errorf("unknown trigger event %q", string(text))
	}
	*e = OnAutoRetainerCharacterPostProcess
	return nil
}

// Metadata holds the per-macro settings carried over from the legacy config.
type Metadata struct {
	LastModified time.Time `json:"last_modified" yaml:"last_modified" toml:"last_modified"`
	// CraftLoopCount is only meaningful when CraftingLoop is set.
	CraftingLoop   bool           `json:"crafting_loop" yaml:"crafting_loop" toml:"crafting_loop"`
	CraftLoopCount int            `json:"craft_loop_count" yaml:"craft_loop_count" toml:"craft_loop_count"`
	TriggerEvents  []TriggerEvent `json:"trigger_events" yaml:"trigger_events" toml:"trigger_events"`
}

// Macro is a typed macro record.
type Macro struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Type       Type     `json:"type" yaml:"type" toml:"type"`
	Content    string   `json:"content" yaml:"content" toml:"content"`
	FolderPath string   `json:"folder_path" yaml:"folder_path" toml:"folder_path"`
	Metadata   Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// HasTrigger reports whether the macro is invoked by the given event.
func (m *Macro) HasTrigger(event TriggerEvent) bool {
	for _, e := range m.Metadata.TriggerEvents {
		if e == event {
			return true
		}
	}
	return false
}
