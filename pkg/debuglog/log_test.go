package debuglog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestDumpOnlyWhenDebugging(t *testing.T) {
	hook := test.NewGlobal()
	level := logrus.GetLevel()
	prev := Debug
	t.Cleanup(func() {
		Debug = prev
		logrus.SetLevel(level)
		hook.Reset()
	})
	logrus.SetLevel(logrus.TraceLevel)

	Debug = false
	Dump("node", map[string]int{"a": 1})
	assert.Empty(t, hook.AllEntries())

	Debug = true
	Dump("node", map[string]int{"a": 1})
	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Contains(t, entry.Message, "node:")
		assert.Contains(t, entry.Message, `"a": (int) 1`)
	}
}
