package version

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

const repoURL = "https://github.com/sndtools/snd"

func NewCmdVersion(version, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "version",
		Short:  "Print the snd version",
		Hidden: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), Format(version, buildDate))
		},
	}
	return cmd
}

func Format(version, buildDate string) string {
	version = strings.TrimPrefix(version, "v")
	if buildDate != "" {
		return fmt.Sprintf("snd version %s (%s)\n%s\n", version, buildDate, changelogURL(version))
	}
	return fmt.Sprintf("snd version %s\n%s\n", version, changelogURL(version))
}

// changelogURL links to the release notes for tagged releases and to the
// latest release for anything else.
func changelogURL(version string) string {
	v, err := goversion.NewSemver(version)
	if err != nil || strings.Contains(v.Prerelease(), "dev") || v.Equal(goversion.Must(goversion.NewVersion("0.0.0"))) {
		return fmt.Sprintf("%s/releases/latest", repoURL)
	}
	return fmt.Sprintf("%s/releases/tag/v%s", repoURL, strings.TrimPrefix(version, "v"))
}
