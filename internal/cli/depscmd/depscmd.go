// Package depscmd implements the "deps" command, which prints the
// dependencies a project with the given stack would install.
package depscmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/lockfile"
	"github.com/nightconcept/sprout/internal/core/project"
	"github.com/nightconcept/sprout/internal/core/validate"
)

// NewDepsCommand creates the "deps" command.
func NewDepsCommand() *cli.Command {
	return &cli.Command{
		Name:  "deps",
		Usage: "Shows the dependencies resolved for a stack",
		Description: "Without flags the stack recorded in sprout-lock.toml is used when present, " +
			"otherwise the defaults. Flags override single choices.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "typescript", Aliases: []string{"ts"}, Usage: "Resolve for the TypeScript variant"},
			&cli.StringSliceFlag{Name: "provider", Aliases: []string{"p"}, Usage: "API provider: rest, socketio or primus (repeatable)"},
			&cli.StringFlag{Name: "tester", Aliases: []string{"t"}, Usage: "Test framework: mocha or jest"},
			&cli.BoolFlag{Name: "json", Usage: "Print package.json style dependency maps"},
		},
		Action: func(c *cli.Context) error {
			p, err := baseProps(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
			}

			if c.IsSet("typescript") {
				p.TypeScript = c.Bool("typescript")
			}
			if c.IsSet("provider") {
				if p.Providers, err = validate.Providers(c.StringSlice("provider")); err != nil {
					return cli.Exit(fmt.Sprintf("Error in %s: %v", project.FieldProviders, err), 1)
				}
			}
			if c.IsSet("tester") {
				if p.Tester, err = validate.Tester(c.String("tester")); err != nil {
					return cli.Exit(fmt.Sprintf("Error in %s: %v", project.FieldTester, err), 1)
				}
			}

			m := deps.Resolve(p)
			if err := m.Validate(); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, m)
			}
			printManifest(os.Stdout, p, m)
			return nil
		},
	}
}

// baseProps returns the recorded stack of the project in dir, or the
// default stack when nothing is recorded.
func baseProps(dir string) (project.Props, error) {
	defaults := project.Props{
		Providers: append([]project.Provider(nil), project.DefaultProviders...),
		Tester:    project.DefaultTester,
	}
	lf, err := lockfile.Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return project.Props{}, err
	}
	p := lf.Project
	if len(p.Providers) == 0 {
		p.Providers = defaults.Providers
	}
	if p.Tester == "" {
		p.Tester = defaults.Tester
	}
	return p, nil
}

func printJSON(w io.Writer, m deps.Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}{m.Runtime.Map(), m.Dev.Map()})
}

func printManifest(w io.Writer, p project.Props, m deps.Manifest) {
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	nameColor := color.New(color.FgWhite).SprintFunc()
	constraintColor := color.New(color.FgYellow).SprintFunc()
	stackColor := color.New(color.FgHiBlack).SprintFunc()

	lang := "javascript"
	if p.TypeScript {
		lang = "typescript"
	}
	providers := make([]string, len(p.Providers))
	for i, pr := range p.Providers {
		providers[i] = string(pr)
	}
	_, _ = fmt.Fprintln(w, stackColor(fmt.Sprintf("%s %v %s", lang, providers, p.Tester)))

	for _, section := range []struct {
		header string
		list   deps.List
	}{{"dependencies:", m.Runtime}, {"devDependencies:", m.Dev}} {
		_, _ = fmt.Fprintln(w, headerColor(section.header))
		for _, d := range section.list.Items() {
			_, _ = fmt.Fprintf(w, "  %s %s\n", nameColor(d.Name), constraintColor(d.Constraint))
		}
	}
}
