package migrate

import (
	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/macro"
)

// Store is the destination macro collection.
type Store interface {
	Add(m *macro.Macro)
	Save() error
}

// Commit appends every selected macro to store in result set order and then
// saves the store once. Macros already appended are not removed if saving
// fails.
func Commit(rs *ResultSet, store Store) (int, error) {
	selected := rs.Selected()
	for _, m := range selected {
		store.Add(m)
	}

	if err := store.Save(); err != nil {
		return len(selected), errors.Wrap(err, "failed to import macros")
	}
	return len(selected), nil
}
