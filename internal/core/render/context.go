// Package render builds the template context of a generated project and
// renders the embedded source templates to disk.
package render

import (
	"path"

	"github.com/nightconcept/sprout/internal/core/project"
)

// Context is the data passed to every template: the project Props plus the
// HasProvider predicate they carry. It holds no mutable state and can be
// shared between concurrently executing templates.
type Context struct {
	project.Props
}

// NewContext builds the rendering context for p.
func NewContext(p project.Props) Context {
	providers := make([]project.Provider, len(p.Providers))
	copy(providers, p.Providers)
	p.Providers = providers
	return Context{Props: p}
}

// Job is one template to render: the template path inside the template
// filesystem, the destination relative to the project root and the context.
type Job struct {
	Template    string
	Destination string
	Context     Context
}

// Jobs lists the templates to render for p, in emission order. The test file
// template is chosen by the same tester the package.json test script runs.
func Jobs(p project.Props) []Job {
	ctx := NewContext(p)
	lang := p.SourceExt()

	jobs := []Job{
		{Template: "common/README.md", Destination: "README.md"},
		{Template: path.Join(lang, "app."+lang), Destination: path.Join(p.Src, "app."+lang)},
		{Template: path.Join(lang, "index."+lang), Destination: path.Join(p.Src, "index."+lang)},
		{
			Template:    path.Join(lang, "app.test."+string(p.Tester)+"."+lang),
			Destination: path.Join(project.TestDir, "app.test."+lang),
		},
	}
	if p.TypeScript {
		jobs = append(jobs, Job{Template: "ts/tslint.json", Destination: "tslint.json"})
		if p.Tester == project.Jest {
			jobs = append(jobs, Job{Template: "ts/jest.config.js", Destination: "jest.config.js"})
		}
	}

	for i := range jobs {
		jobs[i].Context = ctx
	}
	return jobs
}
