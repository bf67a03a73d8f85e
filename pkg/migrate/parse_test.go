package migrate

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sndtools/snd/pkg/legacy"
	"github.com/sndtools/snd/pkg/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var migratedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func parseString(t *testing.T, doc string) (*ResultSet, *test.Hook) {
	t.Helper()
	value, err := legacy.Parse([]byte(doc))
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	rs, err := Parse(value, ParseOptions{
		Logger: logger,
		Now:    func() time.Time { return migratedAt },
	})
	require.NoError(t, err)
	return rs, hook
}

func errorEntries(hook *test.Hook) []*logrus.Entry {
	var entries []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			entries = append(entries, e)
		}
	}
	return entries
}

const exampleDoc = `{
	"RootFolder": {
		"Name": "Root",
		"Children": [
			{"Name": "A", "Contents": "echo 1", "Language": "0"},
			{"Name": "Sub", "Children": [
				{"Name": "B", "Contents": "echo 2", "Language": "1", "isPostProcess": true}
			]}
		]
	}
}`

func TestParseExample(t *testing.T) {
	rs, hook := parseString(t, exampleDoc)

	require.Equal(t, []string{"A", "B"}, rs.Names())
	assert.Empty(t, errorEntries(hook))

	a, ok := rs.Get("A")
	require.True(t, ok)
	assert.True(t, a.Selected)
	assert.Equal(t, &macro.Macro{
		Name:       "A",
		Type:       macro.Native,
		Content:    "echo 1",
		FolderPath: "/",
		Metadata: macro.Metadata{
			LastModified:  migratedAt,
			TriggerEvents: []macro.TriggerEvent{},
		},
	}, a.Macro)

	b, ok := rs.Get("B")
	require.True(t, ok)
	assert.True(t, b.Selected)
	assert.Equal(t, macro.Lua, b.Macro.Type)
	assert.Equal(t, "/Sub", b.Macro.FolderPath)
	assert.Equal(t, []macro.TriggerEvent{macro.OnAutoRetainerCharacterPostProcess}, b.Macro.Metadata.TriggerEvents)
}

func TestParseCountsWellFormedMacros(t *testing.T) {
	rs, _ := parseString(t, `{"RootFolder": {"Name": "R", "Children": [
		{"Name": "one", "Contents": "a"},
		{"Name": "two", "Contents": "b"},
		{"Name": "Folder", "Children": [
			{"Name": "three", "Contents": "c"},
			{"Name": "Deeper", "Children": [{"Name": "four", "Contents": "d"}]}
		]}
	]}}`)

	require.Equal(t, 4, rs.Len())
	assert.Equal(t, 4, rs.SelectedCount())
	for _, e := range rs.Entries() {
		assert.True(t, e.Selected, e.Name)
		assert.Equal(t, e.Name, e.Macro.Name)
	}

	four, _ := rs.Get("four")
	assert.Equal(t, "/Folder/Deeper", four.Macro.FolderPath)
}

func TestParseIsIdempotent(t *testing.T) {
	first, _ := parseString(t, exampleDoc)
	second, _ := parseString(t, exampleDoc)

	require.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		a, _ := first.Get(name)
		b, _ := second.Get(name)
		assert.Equal(t, a, b)
	}
}

func TestParseRootChildrenUseSlashRegardlessOfRootName(t *testing.T) {
	for _, root := range []string{`"Name": "My Macros",`, `"Name": null,`, ``, `"Name": "/nested/root",`} {
		rs, _ := parseString(t, `{"RootFolder": {`+root+` "Children": [{"Name": "m", "Contents": "x"}]}}`)
		m, ok := rs.Get("m")
		require.True(t, ok, root)
		assert.Equal(t, "/", m.Macro.FolderPath, root)
	}
}

func TestParseDuplicateNamesLastWins(t *testing.T) {
	rs, _ := parseString(t, `{"RootFolder": {"Children": [
		{"Name": "dup", "Contents": "first"},
		{"Name": "other", "Contents": "o"},
		{"Name": "F", "Children": [{"Name": "dup", "Contents": "second", "Language": 1}]}
	]}}`)

	require.Equal(t, 2, rs.Len())
	dup, _ := rs.Get("dup")
	assert.Equal(t, "second", dup.Macro.Content)
	assert.Equal(t, "/F", dup.Macro.FolderPath)
	assert.Equal(t, macro.Lua, dup.Macro.Type)
	assert.Equal(t, []string{"dup", "other"}, rs.Names())
}

func TestParseResilientToMalformedNodes(t *testing.T) {
	rs, hook := parseString(t, `{"RootFolder": {"Name": "Root", "Children": [
		{"Name": "good1", "Contents": "a"},
		{"Name": "badFlag", "Contents": "b", "CraftingLoop": "yes"},
		"not a node",
		null,
		{"Name": {"nested": true}},
		{"Name": "badCount", "Contents": "c", "CraftingLoop": true, "CraftLoopCount": 2.5},
		{"Name": "BadFolder", "Children": {"Name": "x"}},
		{"Name": "good2", "Contents": "d"}
	]}}`)

	assert.Equal(t, []string{"good1", "good2"}, rs.Names())
	assert.Len(t, errorEntries(hook), 6)
	for _, e := range errorEntries(hook) {
		assert.Contains(t, e.Data, "path")
	}
}

func TestParseSkipsNodesWithoutContentOrName(t *testing.T) {
	rs, hook := parseString(t, `{"RootFolder": {"Children": [
		{"Language": "1"},
		{"Contents": null, "Name": null},
		{"Name": "kept", "Contents": ""}
	]}}`)

	assert.Equal(t, []string{"kept"}, rs.Names())
	assert.Empty(t, errorEntries(hook))
}

func TestParseContentTakesPrecedenceOverChildren(t *testing.T) {
	rs, _ := parseString(t, `{"RootFolder": {"Children": [
		{"Name": "both", "Contents": "body", "Children": [{"Name": "inner", "Contents": "x"}]}
	]}}`)

	assert.Equal(t, []string{"both"}, rs.Names())
}

func TestParseDerivedFields(t *testing.T) {
	rs, _ := parseString(t, `{"RootFolder": {"Children": [
		{"Contents": "no name"},
		{"Name": "lua-number", "Contents": "x", "Language": 1},
		{"Name": "lua-string", "Contents": "x", "Language": "1"},
		{"Name": "lua-float", "Contents": "x", "Language": 1.0},
		{"Name": "lua-exponent", "Contents": "x", "Language": 1e0},
		{"Name": "native-fraction", "Contents": "x", "Language": 1.5},
		{"Name": "native-2", "Contents": "x", "Language": "2"},
		{"Name": "native-null", "Contents": "x", "Language": null},
		{"Name": "loop", "Contents": "x", "CraftingLoop": true, "CraftLoopCount": 5},
		{"Name": "loop-no-count", "Contents": "x", "CraftingLoop": true},
		{"Name": "count-without-loop", "Contents": "x", "CraftingLoop": false, "CraftLoopCount": "garbage"},
		{"Name": "post-false", "Contents": "x", "isPostProcess": false},
		{"Name": "numeric-contents", "Contents": 42}
	]}}`)

	get := func(name string) *macro.Macro {
		e, ok := rs.Get(name)
		require.True(t, ok, name)
		return e.Macro
	}

	assert.Equal(t, "no name", get(macro.UnknownName).Content)
	assert.Equal(t, macro.Lua, get("lua-number").Type)
	assert.Equal(t, macro.Lua, get("lua-string").Type)
	assert.Equal(t, macro.Lua, get("lua-float").Type)
	assert.Equal(t, macro.Lua, get("lua-exponent").Type)
	assert.Equal(t, macro.Native, get("native-fraction").Type)
	assert.Equal(t, macro.Native, get("native-2").Type)
	assert.Equal(t, macro.Native, get("native-null").Type)

	loop := get("loop")
	assert.True(t, loop.Metadata.CraftingLoop)
	assert.Equal(t, 5, loop.Metadata.CraftLoopCount)

	assert.Equal(t, 0, get("loop-no-count").Metadata.CraftLoopCount)

	noLoop := get("count-without-loop")
	assert.False(t, noLoop.Metadata.CraftingLoop)
	assert.Equal(t, 0, noLoop.Metadata.CraftLoopCount)

	assert.Empty(t, get("post-false").Metadata.TriggerEvents)
	assert.Equal(t, "42", get("numeric-contents").Content)
}

func TestParseMissingRootFolder(t *testing.T) {
	rs, hook := parseString(t, `{"Macros": []}`)

	assert.Equal(t, 0, rs.Len())
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, messages(hook), "No macros found in old config")
}

func TestParseRootWithoutChildren(t *testing.T) {
	rs, hook := parseString(t, `{"RootFolder": {"Name": "Root"}}`)

	assert.Equal(t, 0, rs.Len())
	assert.Contains(t, messages(hook), "No Children property found in folder")
}

func TestParseRootNotAnObject(t *testing.T) {
	rs, hook := parseString(t, `{"RootFolder": "oops"}`)

	assert.Equal(t, 0, rs.Len())
	assert.Contains(t, messages(hook), "Error determining root folder name")
	assert.Contains(t, messages(hook), "Failed to traverse folder structure")
}

func TestParseRejectsNonObjectDocument(t *testing.T) {
	value, err := legacy.Parse([]byte(`[1, 2, 3]`))
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	rs, err := Parse(value, ParseOptions{Logger: logger})
	assert.Error(t, err)
	assert.Nil(t, rs)
}

func TestJoinFolderPath(t *testing.T) {
	tests := []struct {
		parent string
		name   string
		want   string
	}{
		{parent: "/", name: "Sub", want: "/Sub"},
		{parent: "/Sub", name: "Inner", want: "/Sub/Inner"},
		{parent: "/Sub", name: `A\B`, want: "/Sub/A/B"},
		{parent: "/Sub", name: "/Lead/", want: "/Sub/Lead"},
		{parent: "/Sub", name: "", want: "/Sub"},
		{parent: "/", name: "", want: "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, joinFolderPath(tt.parent, tt.name), "%q + %q", tt.parent, tt.name)
	}
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func TestParseNestedFoldersKeepFullPath(t *testing.T) {
	rs, _ := parseString(t, `{"RootFolder": {"Name": "Root", "Children": [
		{"Name": "Sub", "Children": [
			{"Name": "Deep", "Children": [{"Name": "inner", "Contents": "x"}]}
		]}
	]}}`)

	e, ok := rs.Get("inner")
	require.True(t, ok)
	assert.Equal(t, "/Sub/Deep", e.Macro.FolderPath)
}
