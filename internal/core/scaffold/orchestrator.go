// Package scaffold sequences one scaffolding run: it collects and validates
// the project Props, synthesizes every artifact from them and hands the
// results to the emitter and installer collaborators.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nightconcept/sprout/internal/core/config"
	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/project"
	"github.com/nightconcept/sprout/internal/core/render"
	"github.com/nightconcept/sprout/internal/core/synth"
	"github.com/nightconcept/sprout/internal/core/validate"
)

// Prompter asks the user for the value of one field.
type Prompter interface {
	Ask(ctx context.Context, q Question) (Answer, error)
}

// Emitter writes generated files.
type Emitter interface {
	WriteJSON(path string, v any) error
	Render(job render.Job) error
}

// Installer installs a dependency list into the generated project.
type Installer interface {
	Install(ctx context.Context, list deps.List, dev bool) error
}

// Recorder persists the outcome of a run once every file is emitted.
type Recorder interface {
	Record(res Result) error
}

// Options configures an Orchestrator.
type Options struct {
	// Dir is the target directory. An existing package.json there pre-fills
	// the name, description and source directory.
	Dir string
	// Known holds answers supplied up front, keyed by field name. Their
	// questions are not asked unless the answer fails validation.
	Known map[string]Answer

	Prompter  Prompter
	Emitter   Emitter
	Installer Installer
	// NewInstaller builds the Installer from the final Props. It is used
	// when Installer is nil.
	NewInstaller func(ctx context.Context, p project.Props) (Installer, error)
	// Recorder is optional.
	Recorder Recorder

	// SkipInstall traverses the install states without calling Installer.
	SkipInstall bool
	// OnTransition is called after every state change.
	OnTransition func(from, to State)
	Logger       *log.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	Props    project.Props
	Manifest deps.Manifest
	// Files lists the emitted paths relative to Dir, in emission order.
	Files []string
}

// Orchestrator owns the run state of a single scaffolding run. It is not
// safe for concurrent use and cannot be run twice.
type Orchestrator struct {
	opts   Options
	logger *log.Logger
	state  State

	known map[string]Answer
	set   map[string]bool
	props project.Props

	manifest  deps.Manifest
	artifacts []synth.Artifact
	jobs      []render.Job
	files     []string
	installer Installer
}

// New creates an Orchestrator in StateInit.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "scaffold"})
	}
	return &Orchestrator{
		opts:   opts,
		logger: logger,
		state:  StateInit,
		known:  make(map[string]Answer),
		set:    make(map[string]bool),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// advance moves to the next state. Any other target is rejected.
func (o *Orchestrator) advance(to State) error {
	from := o.state
	if from == StateDone || to != from+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	o.state = to
	o.logger.Debug("state changed", "from", from, "to", to)
	if o.opts.OnTransition != nil {
		o.opts.OnTransition(from, to)
	}
	return nil
}

// Run executes every phase in order and returns the finalized Props, the
// resolved manifest and the emitted paths.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if o.state != StateInit {
		return nil, fmt.Errorf("%w: run started in state %s", ErrInvalidTransition, o.state)
	}
	if o.opts.Prompter == nil || o.opts.Emitter == nil {
		return nil, fmt.Errorf("scaffold: Prompter and Emitter are required")
	}

	phases := []struct {
		next State
		run  func(context.Context) error
	}{
		{StateCollecting, o.collect},
		{StateValidating, o.validate},
		{StateSynthesizing, o.synthesize},
		{StateEmitting, o.emit},
		{StateInstallingRuntime, o.installRuntime},
		{StateInstallingDev, o.installDev},
	}

	if err := o.init(); err != nil {
		return nil, err
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := o.advance(phase.next); err != nil {
			return nil, err
		}
		if err := phase.run(ctx); err != nil {
			return nil, err
		}
	}
	if err := o.advance(StateDone); err != nil {
		return nil, err
	}

	return o.result(), nil
}

func (o *Orchestrator) result() *Result {
	files := make([]string, len(o.files))
	copy(files, o.files)
	return &Result{Props: o.props, Manifest: o.manifest, Files: files}
}

func (o *Orchestrator) init() error {
	for k, v := range o.opts.Known {
		o.known[k] = v
	}

	d, err := config.LoadDescriptor(o.opts.Dir)
	switch {
	case err == nil:
		o.logger.Debug("found existing descriptor", "name", d.Name)
		o.preset(project.FieldName, d.Name)
		o.preset(project.FieldDescription, d.Description)
		o.preset(project.FieldSrc, d.Directories.Lib)
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("reading existing %s: %w", config.DescriptorName, err)
	}
	return nil
}

// preset records a descriptor value unless the caller already supplied one.
func (o *Orchestrator) preset(fieldName, value string) {
	if value == "" {
		return
	}
	if _, ok := o.known[fieldName]; ok {
		return
	}
	o.known[fieldName] = Answer{Text: value}
}

func (o *Orchestrator) defaultName() string {
	dir := o.opts.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir)
}

func (o *Orchestrator) collect(ctx context.Context) error {
	for _, f := range fields(o.defaultName(), deps.KnownNames()) {
		q := f.Question
		if a, ok := o.known[f.Field]; ok {
			err := f.apply(&o.props, a)
			if err == nil {
				o.set[f.Field] = true
				continue
			}
			if !recoverable(err) {
				return err
			}
			o.logger.Warn("ignoring preset answer", "field", f.Field, "error", err)
			q.Default, q.Rejected = a, err
		}
		if err := o.ask(ctx, f, q); err != nil {
			return err
		}
	}
	return nil
}

// ask repeats q until the reply is accepted. A rejected reply comes back as
// the default of the next attempt together with the reason it was rejected.
func (o *Orchestrator) ask(ctx context.Context, f field, q Question) error {
	for {
		a, err := o.opts.Prompter.Ask(ctx, q)
		if err != nil {
			return fmt.Errorf("asking for %s: %w", f.Field, err)
		}
		if f.Field == project.FieldName && strings.TrimSpace(a.Text) == "" {
			return nil
		}
		err = f.apply(&o.props, a)
		if err == nil {
			o.set[f.Field] = true
			return nil
		}
		if !recoverable(err) {
			return err
		}
		o.logger.Warn("answer rejected", "field", f.Field, "error", err)
		q.Default, q.Rejected = a, err
	}
}

func recoverable(err error) bool {
	var fe validate.FieldError
	return errors.As(err, &fe) && fe.Recoverable()
}

func (o *Orchestrator) validate(context.Context) error {
	if !o.set[project.FieldName] {
		return &validate.UnresolvedPropertyError{Field: project.FieldName}
	}
	if !o.set[project.FieldSrc] {
		o.props.Src = project.DefaultSrc
	}
	if !o.set[project.FieldPackager] {
		pm, err := project.ParsePackager(project.DefaultPackager)
		if err != nil {
			return err
		}
		o.props.Packager = pm
	}
	if !o.set[project.FieldProviders] {
		o.props.Providers = append([]project.Provider(nil), project.DefaultProviders...)
	}
	if !o.set[project.FieldTester] {
		o.props.Tester = project.DefaultTester
	}
	return validate.Props(o.props, deps.KnownNames())
}

func (o *Orchestrator) synthesize(context.Context) error {
	o.manifest = deps.Resolve(o.props)
	if err := o.manifest.Validate(); err != nil {
		return err
	}
	artifacts, err := synth.Artifacts(o.props, o.manifest)
	if err != nil {
		return err
	}
	o.artifacts = artifacts
	o.jobs = render.Jobs(o.props)
	o.logger.Debug("synthesized",
		"dependencies", o.manifest.Runtime.Len(),
		"devDependencies", o.manifest.Dev.Len(),
		"artifacts", len(o.artifacts),
		"templates", len(o.jobs))
	return nil
}

func (o *Orchestrator) emit(context.Context) error {
	for _, a := range o.artifacts {
		if err := o.opts.Emitter.WriteJSON(a.Path, a.Body); err != nil {
			return &EmitError{Path: a.Path, Err: err}
		}
		o.files = append(o.files, a.Path)
	}
	for _, job := range o.jobs {
		if err := o.opts.Emitter.Render(job); err != nil {
			return &EmitError{Path: job.Destination, Err: err}
		}
		o.files = append(o.files, job.Destination)
	}
	if o.opts.Recorder != nil {
		if err := o.opts.Recorder.Record(*o.result()); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) installRuntime(ctx context.Context) error {
	if o.opts.SkipInstall {
		return nil
	}
	o.installer = o.opts.Installer
	if o.installer == nil && o.opts.NewInstaller != nil {
		inst, err := o.opts.NewInstaller(ctx, o.props)
		if err != nil {
			return &InstallError{Err: err}
		}
		o.installer = inst
	}
	return o.install(ctx, o.manifest.Runtime, false)
}

func (o *Orchestrator) installDev(ctx context.Context) error {
	return o.install(ctx, o.manifest.Dev, true)
}

func (o *Orchestrator) install(ctx context.Context, list deps.List, dev bool) error {
	if o.opts.SkipInstall || o.installer == nil {
		o.logger.Debug("skipping install", "dev", dev)
		return nil
	}
	o.logger.Info("installing", "count", list.Len(), "dev", dev)
	if err := o.installer.Install(ctx, list, dev); err != nil {
		return &InstallError{Dev: dev, Err: err}
	}
	return nil
}
