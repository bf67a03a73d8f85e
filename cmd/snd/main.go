package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mgutz/ansi"
	"github.com/sndtools/snd/internal/build"
	"github.com/sndtools/snd/internal/update"
	"github.com/sndtools/snd/pkg/cmd/root"
	"github.com/sndtools/snd/pkg/config"
	"github.com/sndtools/snd/pkg/helpers"
)

func main() {
	code := runMain()
	os.Exit(code)
}

func runMain() int {
	if dsn := os.Getenv("SND_SENTRY_DSN"); dsn != "" && os.Getenv("SND_ERROR_TELEMETRY") != "0" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: build.SentryEnvironment,
			Release:     build.Version,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	buildVersion := build.Version
	buildDate := build.Date

	updateMessageChan := make(chan *update.Release)
	go func() {
		rel, _ := checkForUpdate(buildVersion)
		updateMessageChan <- rel
	}()

	rootCmd := root.NewCmdRoot(buildVersion, buildDate)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	newRelease := <-updateMessageChan
	if newRelease != nil {
		fmt.Fprint(os.Stderr, updateMessage(buildVersion, newRelease, update.IsUnderHomebrew()))
	}

	return 0
}

func updateMessage(current string, rel *update.Release, isHomebrew bool) string {
	msg := fmt.Sprintf("\n\n%s%s%s %s → %s\n",
		ansi.Color("A new release of snd is available, released on ", "yellow"),
		ansi.Color(rel.PublishedAt.Format("2006-01-02"), "yellow"),
		ansi.Color(":", "yellow"),
		ansi.Color(current, "cyan"),
		ansi.Color(rel.Version, "cyan"))
	if isHomebrew {
		msg += fmt.Sprintf("To upgrade, run: %s\n", "brew update && brew upgrade sndtools/tap/snd")
	}
	msg += fmt.Sprintf("%s\n\n", ansi.Color(rel.URL, "yellow"))
	return msg
}

func checkForUpdate(currentVersion string) (*update.Release, error) {
	if !shouldCheckForUpdate() {
		return nil, nil
	}

	stateFilePath, err := config.StateFile()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return update.NewChecker(stateFilePath).CheckForUpdate(ctx, currentVersion)
}

func shouldCheckForUpdate() bool {
	if os.Getenv("SND_NO_UPDATE_NOTIFIER") != "" {
		return false
	}
	return helpers.IsTerminal()
}
