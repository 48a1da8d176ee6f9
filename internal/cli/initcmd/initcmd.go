// Package initcmd implements the "init" command that generates a new project.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/cli/prompt"
	"github.com/nightconcept/sprout/internal/core/config"
	"github.com/nightconcept/sprout/internal/core/installer"
	"github.com/nightconcept/sprout/internal/core/lockfile"
	"github.com/nightconcept/sprout/internal/core/project"
	"github.com/nightconcept/sprout/internal/core/render"
	"github.com/nightconcept/sprout/internal/core/scaffold"
	"github.com/nightconcept/sprout/internal/core/validate"
)

// GetInitCommand returns the definition for the "init" command.
func GetInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Aliases:   []string{"new"},
		Usage:     "Generate a new service project",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Project description"},
			&cli.StringFlag{Name: "src", Usage: "Folder the source files live in"},
			&cli.StringFlag{Name: "packager", Usage: "Package manager, e.g. 'npm' or 'yarn@>= 0.18.0'"},
			&cli.StringSliceFlag{Name: "provider", Aliases: []string{"p"}, Usage: "API provider: rest, socketio or primus (repeatable)"},
			&cli.StringFlag{Name: "tester", Aliases: []string{"t"}, Usage: "Test framework: mocha or jest"},
			&cli.BoolFlag{Name: "typescript", Aliases: []string{"ts"}, Usage: "Generate the TypeScript variant"},
			&cli.StringFlag{Name: "answers", Usage: "Read preset answers from a sprout.toml file"},
			&cli.BoolFlag{Name: "save-answers", Usage: "Write the final choices to <directory>/sprout.toml"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask, use defaults for everything not given"},
			&cli.BoolFlag{Name: "skip-install", Usage: "Generate files without installing dependencies"},
			&cli.BoolFlag{Name: "verbose", Usage: "Enable verbose output"},
		},
		Action: initAction,
	}
}

func initAction(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.Exit(fmt.Sprintf("Error creating directory %s: %v", dir, err), 1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "sprout"})
	if c.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	known, err := knownAnswers(c, dir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	emitter := render.NewFileEmitter(dir)
	orchestrator := scaffold.New(scaffold.Options{
		Dir:         dir,
		Known:       known,
		Prompter:    prompt.New(os.Stdin, os.Stdout, !c.Bool("yes")),
		Emitter:     emitter,
		Recorder:    recordWriter{dir: dir, emitter: emitter, saveAnswers: c.Bool("save-answers")},
		SkipInstall: c.Bool("skip-install"),
		Logger:      logger,
		NewInstaller: func(ctx context.Context, p project.Props) (scaffold.Installer, error) {
			pk := installer.New(dir, p.Packager)
			pk.Logger = logger
			if _, err := pk.CheckVersion(ctx); err != nil {
				return nil, err
			}
			return pk, nil
		},
	})

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := orchestrator.Run(ctx)
	if err != nil {
		return cli.Exit(describe(err), 1)
	}

	printSummary(dir, res, c.Bool("skip-install"))
	return nil
}

// knownAnswers merges the answers file with the command line flags. Flags
// win over the file.
func knownAnswers(c *cli.Context, dir string) (map[string]scaffold.Answer, error) {
	known := make(map[string]scaffold.Answer)

	path := c.String("answers")
	if path == "" {
		if _, err := os.Stat(filepath.Join(dir, config.AnswersName)); err == nil {
			path = filepath.Join(dir, config.AnswersName)
		}
	}
	if path != "" {
		a, err := config.LoadAnswers(path)
		if err != nil {
			return nil, err
		}
		mergeAnswers(known, a)
	}

	for _, f := range []string{project.FieldName, project.FieldDescription, project.FieldSrc, project.FieldPackager, project.FieldTester} {
		if c.IsSet(f) {
			known[f] = scaffold.Answer{Text: c.String(f)}
		}
	}
	if c.IsSet("provider") {
		known[project.FieldProviders] = scaffold.Answer{Items: c.StringSlice("provider")}
	}
	if c.IsSet("typescript") {
		known[project.FieldTypeScript] = scaffold.Answer{Yes: c.Bool("typescript")}
	}
	return known, nil
}

func mergeAnswers(known map[string]scaffold.Answer, a *config.Answers) {
	text := map[string]string{
		project.FieldName:        a.Project.Name,
		project.FieldDescription: a.Project.Description,
		project.FieldSrc:         a.Project.Src,
		project.FieldPackager:    a.Stack.Packager,
		project.FieldTester:      a.Stack.Tester,
	}
	for field, v := range text {
		if v != "" {
			known[field] = scaffold.Answer{Text: v}
		}
	}
	if len(a.Stack.Providers) > 0 {
		known[project.FieldProviders] = scaffold.Answer{Items: a.Stack.Providers}
	}
	if a.Stack.TypeScript != nil {
		known[project.FieldTypeScript] = scaffold.Answer{Yes: *a.Stack.TypeScript}
	}
}

// recordWriter saves sprout-lock.toml once every file is emitted, and the
// answers file when asked to.
type recordWriter struct {
	dir         string
	emitter     *render.FileEmitter
	saveAnswers bool
}

func (r recordWriter) Record(res scaffold.Result) error {
	lf := lockfile.New()
	lf.Project = res.Props
	lf.SetManifest(res.Manifest)
	for _, w := range r.emitter.Written() {
		lf.AddOrUpdateFile(w.Path, w.Hash)
	}
	if err := lockfile.Save(r.dir, lf); err != nil {
		return err
	}
	if r.saveAnswers {
		path := filepath.Join(r.dir, config.AnswersName)
		if err := config.WriteAnswers(path, config.AnswersFrom(res.Props)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// describe turns a run error into the message shown to the user.
func describe(err error) string {
	var (
		field      validate.FieldError
		emitErr    *scaffold.EmitError
		installErr *scaffold.InstallError
	)
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		return "Initialization cancelled."
	case errors.As(err, &emitErr):
		return fmt.Sprintf("Error writing %s: %v", emitErr.Path, emitErr.Err)
	case errors.As(err, &installErr):
		return fmt.Sprintf("Error %v. Files were generated; run 'sprout install' to retry.", installErr)
	case errors.As(err, &field):
		return fmt.Sprintf("Error in %s: %v", field.FieldName(), err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func printSummary(dir string, res *scaffold.Result, skipped bool) {
	nameColor := color.New(color.FgMagenta, color.Bold).SprintFunc()
	pathColor := color.New(color.FgHiBlack).SprintFunc()
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	okColor := color.New(color.FgGreen).SprintFunc()

	_, _ = fmt.Fprintf(os.Stdout, "\n%s %s %s\n", okColor("Created"), nameColor(res.Props.Name), pathColor(dir))
	_, _ = fmt.Fprintln(os.Stdout, headerColor("files:"))
	for _, f := range res.Files {
		_, _ = fmt.Fprintf(os.Stdout, "  %s\n", f)
	}
	_, _ = fmt.Fprintf(os.Stdout, "  %s\n", lockfile.LockfileName)
	_, _ = fmt.Fprintf(os.Stdout, "%s %s, %s %s\n",
		headerColor("dependencies:"), strconv.Itoa(res.Manifest.Runtime.Len()),
		headerColor("devDependencies:"), strconv.Itoa(res.Manifest.Dev.Len()))

	pm := res.Props.Packager.Name
	if skipped {
		_, _ = fmt.Fprintf(os.Stdout, "\nDependencies were not installed. Run 'sprout install' in %s when ready.\n", dir)
		return
	}
	_, _ = fmt.Fprintf(os.Stdout, "\nRun '%s test' to check the generated project and '%s run dev' to start it.\n", pm, pm)
}
