package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether both stdout and stderr are attached to a
// terminal outside of CI.
func IsTerminal() bool {
	return !IsCI() && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

func IsCI() bool {
	return os.Getenv("CI") != "" || // GitHub Actions, Travis CI, CircleCI, Cirrus CI, GitLab CI, AppVeyor, CodeShip, dsari
		os.Getenv("BUILD_NUMBER") != "" || // Jenkins, TeamCity
		os.Getenv("RUN_ID") != "" // TaskCluster, dsari
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
