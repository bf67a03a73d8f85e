// Package debuglog gates verbose diagnostics behind SND_DEBUG.
package debuglog

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

var Debug bool

func Log(format string, args ...interface{}) {
	if Debug {
		logrus.StandardLogger().Logf(logrus.TraceLevel, format, args...)
	}
}

// Dump writes a labelled dump of v when debugging is enabled.
func Dump(label string, v interface{}) {
	if Debug {
		Log("%s:\n%s", label, spew.Sdump(v))
	}
}

func init() {
	Debug = os.Getenv("SND_DEBUG") != ""
}
