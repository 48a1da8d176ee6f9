package install

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/installer"
	"github.com/nightconcept/sprout/internal/core/lockfile"
)

// NewInstallCommand creates a new cli.Command for the "install" command.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Installs the dependencies recorded in sprout-lock.toml",
		ArgsUsage: "[dependency_names...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "prod",
				Usage: "Install runtime dependencies only",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "install"})
			if c.Bool("verbose") {
				logger.SetLevel(log.DebugLevel)
			}

			lf, err := lockfile.Load(".")
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.Exit(fmt.Sprintf("Error: %s not found in the current directory. Please run 'sprout init' first.", lockfile.LockfileName), 1)
				}
				return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
			}
			logger.Debug("loaded record", "project", lf.Project.Name, "packager", lf.Project.Packager.String())

			m := lf.Manifest()
			if err := m.Validate(); err != nil {
				return cli.Exit(fmt.Sprintf("Error in %s: %v", lockfile.LockfileName, err), 1)
			}

			runtime, dev := m.Runtime, m.Dev
			if names := c.Args().Slice(); len(names) > 0 {
				runtime, dev = selectNamed(m, names)
				if runtime.Len()+dev.Len() == 0 {
					_, _ = fmt.Fprintln(os.Stdout, "No specified dependencies were found in the record to install.")
					return nil
				}
			}
			if c.Bool("prod") {
				dev = deps.NewList()
			}

			pk := installer.New(".", lf.Project.Packager)
			pk.Logger = logger
			if _, err := pk.CheckVersion(c.Context); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			if err := pk.Install(c.Context, runtime, false); err != nil {
				return cli.Exit(fmt.Sprintf("Error installing dependencies: %v", err), 1)
			}
			if err := pk.Install(c.Context, dev, true); err != nil {
				return cli.Exit(fmt.Sprintf("Error installing devDependencies: %v", err), 1)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully installed %d dependenc(ies).\n", runtime.Len()+dev.Len())
			return nil
		},
	}
}

// selectNamed keeps the named dependencies of m, warning about names the
// record does not list.
func selectNamed(m deps.Manifest, names []string) (runtime, dev deps.List) {
	runtime, dev = deps.NewList(), deps.NewList()
	for _, name := range names {
		if d, ok := m.Runtime.Get(name); ok {
			runtime = runtime.With(d)
			continue
		}
		if d, ok := m.Dev.Get(name); ok {
			dev = dev.With(d)
			continue
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Dependency '%s' specified for install not found in %s. Skipping.\n", name, lockfile.LockfileName)
	}
	return runtime, dev
}
