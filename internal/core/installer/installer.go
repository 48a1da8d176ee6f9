// Package installer runs the project's package manager to install resolved
// dependencies into a generated project.
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/project"
)

var (
	// ErrUnsupportedPackager is returned for a package manager without known
	// install arguments.
	ErrUnsupportedPackager = errors.New("unsupported package manager")
	// ErrVersionMismatch is returned when the installed package manager does
	// not satisfy the project's constraint.
	ErrVersionMismatch = errors.New("package manager version does not satisfy constraint")
)

// RunFunc executes name with args inside dir. Stdout and stderr of the
// process are written to out.
type RunFunc func(ctx context.Context, dir string, out io.Writer, name string, args ...string) error

// ExecRun is the RunFunc backed by os/exec.
func ExecRun(ctx context.Context, dir string, out io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

var defaultRun RunFunc = ExecRun

// SetTestRunner replaces the RunFunc used by Packagers created afterwards
// with New. It returns a function restoring the previous runner.
func SetTestRunner(fn RunFunc) (restore func()) {
	prev := defaultRun
	defaultRun = fn
	return func() { defaultRun = prev }
}

// Packager installs dependency lists with npm or yarn.
type Packager struct {
	Dir     string
	Manager project.Packager
	Run     RunFunc
	// Out receives the package manager output. Defaults to os.Stdout.
	Out    io.Writer
	Logger *log.Logger
}

// New returns a Packager for pm that installs into dir.
func New(dir string, pm project.Packager) *Packager {
	return &Packager{
		Dir:     dir,
		Manager: pm,
		Run:     defaultRun,
		Out:     os.Stdout,
		Logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: "installer"}),
	}
}

// Args returns the package manager arguments that install list.
func (p *Packager) Args(list deps.List, dev bool) ([]string, error) {
	var args []string
	switch p.Manager.Name {
	case "npm":
		args = []string{"install", "--save"}
		if dev {
			args[1] = "--save-dev"
		}
	case "yarn":
		args = []string{"add"}
		if dev {
			args = append(args, "--dev")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPackager, p.Manager.Name)
	}
	return append(args, list.Specs()...), nil
}

// Install installs every dependency of list in a single package manager
// invocation. An empty list is a no-op.
func (p *Packager) Install(ctx context.Context, list deps.List, dev bool) error {
	if list.Len() == 0 {
		return nil
	}
	args, err := p.Args(list, dev)
	if err != nil {
		return err
	}
	p.logger().Debug("running package manager", "dir", p.Dir, "cmd", p.Manager.Name, "args", strings.Join(args, " "))
	if err := p.runner()(ctx, p.Dir, p.out(), p.Manager.Name, args...); err != nil {
		return fmt.Errorf("%s %s failed: %w", p.Manager.Name, args[0], err)
	}
	return nil
}

// CheckVersion asks the package manager for its version and checks it
// against the constraint carried by Manager.
func (p *Packager) CheckVersion(ctx context.Context) (*semver.Version, error) {
	constraint, err := semver.NewConstraint(p.Manager.Constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint %q for %s: %w", p.Manager.Constraint, p.Manager.Name, err)
	}

	var buf bytes.Buffer
	if err := p.runner()(ctx, p.Dir, &buf, p.Manager.Name, "--version"); err != nil {
		return nil, fmt.Errorf("could not run %s --version: %w", p.Manager.Name, err)
	}
	raw := strings.TrimPrefix(strings.TrimSpace(buf.String()), "v")
	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s version %q: %w", p.Manager.Name, raw, err)
	}
	p.logger().Debug("detected package manager", "name", p.Manager.Name, "version", version.String())

	if !constraint.Check(version) {
		return version, fmt.Errorf("%w: %s %s does not match %q", ErrVersionMismatch, p.Manager.Name, version, p.Manager.Constraint)
	}
	return version, nil
}

func (p *Packager) runner() RunFunc {
	if p.Run == nil {
		return defaultRun
	}
	return p.Run
}

func (p *Packager) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Packager) logger() *log.Logger {
	if p.Logger == nil {
		p.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "installer"})
	}
	return p.Logger
}
