package update

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cli/safeexec"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	"github.com/sndtools/snd/internal/build"
	"gopkg.in/yaml.v3"
)

// LatestReleaseURL is the GitHub API endpoint for the newest snd release.
const LatestReleaseURL = "https://api.github.com/repos/sndtools/snd/releases/latest"

// Check whether the snd binary was found under the Homebrew prefix
func IsUnderHomebrew() bool {
	binary, err := os.Executable()
	if err != nil {
		return false
	}

	brewExe, err := safeexec.LookPath("brew")
	if err != nil {
		return false
	}

	brewPrefixBytes, err := exec.Command(brewExe, "--prefix").Output()
	if err != nil {
		return false
	}

	brewBinPrefix := filepath.Join(strings.TrimSpace(string(brewPrefixBytes)), "bin") + string(filepath.Separator)
	return strings.HasPrefix(binary, brewBinPrefix)
}

type Release struct {
	Version     string    `json:"tag_name" yaml:"version"`
	URL         string    `json:"html_url" yaml:"url"`
	PublishedAt time.Time `json:"published_at" yaml:"publishedAt"`
}

type StateEntry struct {
	CheckedForUpdateAt time.Time `yaml:"checkedForUpdateAt"`
	LatestRelease      *Release  `yaml:"latestRelease"`
}

// Checker looks up the latest release at most once per interval, caching the
// answer in a state file.
type Checker struct {
	Client        *http.Client
	URL           string
	StateFilePath string
	Interval      time.Duration
	UserAgent     string
}

func NewChecker(stateFilePath string) *Checker {
	return &Checker{
		Client:        &http.Client{Timeout: 5 * time.Second},
		URL:           LatestReleaseURL,
		StateFilePath: stateFilePath,
		Interval:      time.Hour * 1,
		UserAgent:     build.UserAgent(),
	}
}

// CheckForUpdate returns the latest release when it is newer than
// currentVersion, or nil.
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string) (*Release, error) {
	state, _ := readStateFile(c.StateFilePath)
	if state != nil && time.Since(state.CheckedForUpdateAt) < c.Interval {
		return nil, nil
	}

	release, err := c.latestRelease(ctx)
	if err != nil {
		return nil, err
	}

	state = &StateEntry{CheckedForUpdateAt: time.Now(), LatestRelease: release}
	err = writeStateFile(c.StateFilePath, state)
	if err != nil {
		return nil, err
	}

	if versionGreaterThan(release.Version, currentVersion) {
		return release, nil
	}

	return nil, nil
}

func (c *Checker) latestRelease(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/vnd.github+json")
	req.Header.Add("User-Agent", c.UserAgent)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("release check failed: %s", resp.Status)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, errors.Wrap(err, "failed to decode release")
	}
	release.Version = strings.TrimPrefix(release.Version, "v")
	return &release, nil
}

func readStateFile(stateFilePath string) (*StateEntry, error) {
	content, err := os.ReadFile(stateFilePath)
	if err != nil {
		return nil, err
	}

	var stateEntry StateEntry
	err = yaml.Unmarshal(content, &stateEntry)
	if err != nil {
		return nil, err
	}

	return &stateEntry, nil
}

func writeStateFile(stateFilePath string, state *StateEntry) error {
	content, err := yaml.Marshal(state)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(stateFilePath), 0755)
	if err != nil {
		return err
	}

	err = os.WriteFile(stateFilePath, content, 0600)
	return err
}

func versionGreaterThan(a, b string) bool {
	versionA, err := version.NewVersion(a)
	if err != nil {
		return false
	}
	versionB, err := version.NewVersion(b)
	if err != nil {
		return false
	}
	return versionA.GreaterThan(versionB)
}
