package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags at release time.
var (
	Version = "dev"
	Date    = ""

	SentryEnvironment = "development"
)

// UserAgent identifies snd in outgoing HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("snd/%s/%s/%s", Version, runtime.GOOS, runtime.GOARCH)
}

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
}
