package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sndtools/snd/pkg/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	macros  []macro.Macro
	saveErr error
	saves   int
}

func (s *memoryStore) Add(m *macro.Macro) {
	s.macros = append(s.macros, *m)
}

func (s *memoryStore) Save() error {
	s.saves++
	return s.saveErr
}

func newTestSession(t *testing.T, path string) *Session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewSession(NewLoader(path, logger), ParseOptions{
		Logger: logger,
		Now:    func() time.Time { return migratedAt },
	})
}

func TestSessionOpenAndCommit(t *testing.T) {
	s := newTestSession(t, "")

	require.True(t, s.Open(exampleDoc))
	assert.True(t, s.IsOpen())
	assert.Equal(t, "text", s.Source())
	assert.Equal(t, 2, s.Results().Len())

	require.NoError(t, s.Results().ToggleSelection("A", false))

	store := &memoryStore{}
	n, err := s.Commit(store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.macros, 1)
	assert.Equal(t, "B", store.macros[0].Name)
	assert.Equal(t, 1, store.saves)

	assert.False(t, s.IsOpen())
	assert.Equal(t, 0, s.Results().Len())
}

func TestSessionNoDocument(t *testing.T) {
	s := newTestSession(t, filepath.Join(t.TempDir(), "SomethingNeedDoing.json"))

	assert.False(t, s.Open(""))
	assert.False(t, s.Valid())
	assert.Equal(t, NoDocumentMessage, s.ErrorMessage())
	assert.True(t, errors.Is(s.Err(), ErrNoDocument))
	assert.Equal(t, 0, s.Results().Len())

	_, err := s.Commit(&memoryStore{})
	assert.True(t, errors.Is(err, ErrSessionNotReady))
}

func TestSessionTopLevelFailure(t *testing.T) {
	s := newTestSession(t, "")

	assert.False(t, s.Open(`"just a string"`))
	assert.Contains(t, s.ErrorMessage(), "Error previewing migration: ")
	assert.Equal(t, 0, s.Results().Len())
}

func TestSessionReopenRebuildsFromScratch(t *testing.T) {
	s := newTestSession(t, "")

	require.True(t, s.Open(exampleDoc))
	s.Results().SelectAll(false)

	require.True(t, s.Open(`{"RootFolder": {"Children": [{"Name": "only", "Contents": "x"}]}}`))
	assert.Equal(t, []string{"only"}, s.Results().Names())
	assert.Equal(t, 1, s.Results().SelectedCount())
}

func TestSessionSelectAllRoundTrip(t *testing.T) {
	s := newTestSession(t, "")
	require.True(t, s.Open(`{"RootFolder": {"Children": [
		{"Name": "a", "Contents": "1"},
		{"Name": "b", "Contents": "2"},
		{"Name": "c", "Contents": "3"}
	]}}`))

	s.Results().SelectAll(false)
	s.Results().SelectAll(true)
	assert.Equal(t, 3, s.Results().SelectedCount())
}

func TestSessionRecordsDrift(t *testing.T) {
	s := newTestSession(t, "")

	require.True(t, s.Open(`{"RootFolder": {"Children": [{"Name": "a", "Contents": "1", "CraftingLoop": "yes"}]}}`))
	assert.NotEmpty(t, s.Drift())
	assert.Equal(t, 0, s.Results().Len())
}

func TestSessionCommitSaveFailure(t *testing.T) {
	s := newTestSession(t, "")
	require.True(t, s.Open(exampleDoc))

	store := &memoryStore{saveErr: errors.New("read-only")}
	n, err := s.Commit(store)
	assert.EqualError(t, err, "failed to import macros: read-only")
	assert.Equal(t, 2, n)
	assert.Len(t, store.macros, 2)
}

func TestSessionNullTextUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SomethingNeedDoing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"RootFolder": {"Name": "Root", "Children": [{"Name": "A", "Contents": "echo 1"}]}}`), 0o600))
	s := newTestSession(t, path)

	require.True(t, s.Open("null"))
	assert.True(t, s.Valid())
	assert.Equal(t, path, s.Source())
	assert.Equal(t, []string{"A"}, s.Results().Names())
}

func TestSessionNullTextWithoutConfigFile(t *testing.T) {
	s := newTestSession(t, filepath.Join(t.TempDir(), "SomethingNeedDoing.json"))

	assert.False(t, s.Open("null"))
	assert.Equal(t, NoDocumentMessage, s.ErrorMessage())
	assert.True(t, errors.Is(s.Err(), ErrNoDocument))
	assert.Equal(t, 0, s.Results().Len())
}
