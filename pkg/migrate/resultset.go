package migrate

import (
	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/macro"
)

var ErrMacroNotFound = errors.New("macro not found")

// Entry is one previewed macro and whether it will be imported.
type Entry struct {
	Name     string
	Macro    *macro.Macro
	Selected bool
}

// ResultSet is an insertion-ordered mapping from macro name to entry.
// It is not safe for concurrent use.
type ResultSet struct {
	order   []string
	entries map[string]*Entry
	// selectAll is the shared "select all" intent; it is flipped by ToggleAll
	// and never recomputed from the entries.
	selectAll bool
}

func NewResultSet() *ResultSet {
	return &ResultSet{
		entries:   make(map[string]*Entry),
		selectAll: true,
	}
}

// Put stores m under m.Name, selected. A later macro with the same name
// replaces the earlier one in place.
func (rs *ResultSet) Put(m *macro.Macro) {
	if existing, ok := rs.entries[m.Name]; ok {
		existing.Macro = m
		existing.Selected = true
		return
	}
	rs.order = append(rs.order, m.Name)
	rs.entries[m.Name] = &Entry{Name: m.Name, Macro: m, Selected: true}
}

func (rs *ResultSet) Get(name string) (*Entry, bool) {
	e, ok := rs.entries[name]
	return e, ok
}

func (rs *ResultSet) Len() int {
	return len(rs.order)
}

// Names returns macro names in insertion order.
func (rs *ResultSet) Names() []string {
	return append([]string(nil), rs.order...)
}

// Entries returns the entries in insertion order.
func (rs *ResultSet) Entries() []*Entry {
	entries := make([]*Entry, 0, len(rs.order))
	for _, name := range rs.order {
		entries = append(entries, rs.entries[name])
	}
	return entries
}

// ToggleSelection sets the selection flag of a single entry.
func (rs *ResultSet) ToggleSelection(name string, value bool) error {
	e, ok := rs.entries[name]
	if !ok {
		return errors.Wrapf(ErrMacroNotFound, "%q", name)
	}
	e.Selected = value
	return nil
}

// SelectAll sets every entry's selection flag to value.
func (rs *ResultSet) SelectAll(value bool) {
	for _, e := range rs.entries {
		e.Selected = value
	}
}

// ToggleAll flips the shared select-all intent and applies it to every entry.
func (rs *ResultSet) ToggleAll() bool {
	rs.selectAll = !rs.selectAll
	rs.SelectAll(rs.selectAll)
	return rs.selectAll
}

func (rs *ResultSet) SelectAllState() bool {
	return rs.selectAll
}

// Selected returns the selected macros in insertion order.
func (rs *ResultSet) Selected() []*macro.Macro {
	selected := make([]*macro.Macro, 0, len(rs.order))
	for _, name := range rs.order {
		if e := rs.entries[name]; e.Selected {
			selected = append(selected, e.Macro)
		}
	}
	return selected
}

func (rs *ResultSet) SelectedCount() int {
	n := 0
	for _, e := range rs.entries {
		if e.Selected {
			n++
		}
	}
	return n
}
