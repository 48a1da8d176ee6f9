package self

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/cli/prompt"
	"github.com/nightconcept/sprout/internal/core/scaffold"
)

// DefaultSource is the GitHub repository releases are fetched from.
const DefaultSource = "nightconcept/sprout"

// NewSelfCommand creates a new command for self-management.
func NewSelfCommand() *cli.Command {
	return &cli.Command{
		Name:  "self",
		Usage: "Manage the sprout CLI application itself",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update sprout to the latest version",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Automatically confirm the update",
					},
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Check for available updates without installing",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Specify a custom GitHub update source as 'owner/repo' (e.g., 'nightconcept/sprout')",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable verbose output",
					},
				},
				Action: updateAction,
			},
		},
	}
}

// parseVersion accepts "vX.Y.Z" as well as "X.Y.Z".
func parseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return nil, fmt.Errorf("error parsing current version '%s': %w. Ensure version is like vX.Y.Z or X.Y.Z", s, err)
	}
	return v, nil
}

// parseSource validates an 'owner/repo' slug. An empty source selects
// DefaultSource.
func parseSource(s string) (string, error) {
	if s == "" {
		return DefaultSource, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid --source format. Expected 'owner/repo', got: %s", s)
	}
	return s, nil
}

func updateAction(c *cli.Context) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "self"})
	if c.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	currentVersionStr := c.App.Version
	currentSemVer, err := parseVersion(currentVersionStr)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Debug("current version", "version", currentSemVer.String())

	repoSlug, err := parseSource(c.String("source"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Debug("update source", "repo", repoSlug)

	ghSource, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating GitHub source: %v", err), 1)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: ghSource})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize updater: %v", err), 1)
	}

	logger.Debug("checking for latest version")
	latestRelease, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error detecting latest version: %v", err), 1)
	}
	if !found {
		fmt.Printf("Current version %s is already the latest.\n", currentVersionStr)
		return nil
	}
	logger.Debug("latest release", "version", latestRelease.Version(), "url", latestRelease.URL, "asset", latestRelease.AssetURL)

	if !latestRelease.GreaterThan(currentSemVer.String()) {
		fmt.Printf("Current version %s is already the latest or newer.\n", currentVersionStr)
		return nil
	}

	fmt.Printf("New version available: %s (current: %s)\n", latestRelease.Version(), currentVersionStr)
	if latestRelease.ReleaseNotes != "" {
		logger.Debug("release notes\n" + latestRelease.ReleaseNotes)
	}
	if c.Bool("check") {
		return nil
	}

	if !c.Bool("yes") {
		answer, err := prompt.New(os.Stdin, os.Stdout, true).Ask(c.Context, scaffold.Question{
			Field:   "update",
			Kind:    scaffold.KindConfirm,
			Message: "Do you want to update?",
		})
		if err != nil || !answer.Yes {
			fmt.Println("Update cancelled.")
			return nil
		}
	}

	fmt.Printf("Updating to %s...\n", latestRelease.Version())
	execPath, err := os.Executable()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not get executable path: %v", err), 1)
	}
	logger.Debug("replacing executable", "path", execPath)

	if err := updater.UpdateTo(c.Context, latestRelease, execPath); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update: %v", err), 1)
	}

	fmt.Printf("Successfully updated to version %s.\n", latestRelease.Version())
	return nil
}
