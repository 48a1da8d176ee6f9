package deps

import (
	"github.com/nightconcept/sprout/internal/core/project"
)

var baselineRuntime = []string{
	"@feathersjs/feathers@^3.3.1",
	"@feathersjs/errors@^3.3.6",
	"@feathersjs/configuration@^2.0.6",
	"@feathersjs/express@^1.3.1",
	"serve-favicon@^2.5.0",
	"compression@^1.7.3",
	"helmet@^3.15.1",
	"winston@^3.0.0",
	"cors@^2.8.5",
}

var baselineDev = []string{
	"nodemon@^1.18.7",
	"eslint@^5.14.1",
	"request@^2.88.0",
	"request-promise@^4.2.4",
}

// providerAdapters maps each provider to the packages it pulls in. The first
// entry is the adapter itself.
var providerAdapters = map[project.Provider][]string{
	project.REST:     {"@feathersjs/express@^1.3.1"},
	project.SocketIO: {"@feathersjs/socketio@^3.2.9"},
	project.Primus:   {"@feathersjs/primus@^3.2.6", "ws@^6.2.1"},
}

var testerPackages = map[project.Tester]string{
	project.Mocha: "mocha@^6.0.2",
	project.Jest:  "jest@^24.1.0",
}

// typedExcluded names dev dependencies that have no place in a TypeScript
// project. Only the names listed here are removed.
var typedExcluded = []string{"eslint", "nodemon"}

// typeDeclarations maps a dependency to its declaration package.
var typeDeclarations = map[string]string{
	"compression":     "@types/compression@^0.0.36",
	"cors":            "@types/cors@^2.8.4",
	"helmet":          "@types/helmet@^0.0.43",
	"serve-favicon":   "@types/serve-favicon@^2.2.30",
	"request-promise": "@types/request-promise@^4.1.42",
	"mocha":           "@types/mocha@^5.2.6",
	"jest":            "@types/jest@^24.0.9",
}

var typedTooling = []string{
	"shx@^0.3.2",
	"ts-node-dev@^1.0.0-pre.32",
	"tslint@^5.12.1",
	"typescript@^3.3.3",
}

var typedRunners = map[project.Tester]string{
	project.Mocha: "ts-mocha@^6.0.0",
	project.Jest:  "ts-jest@^24.0.0",
}

// Resolve derives the dependency manifest for p. The result only depends on
// p, and neither half of it contains the same package twice.
func Resolve(p project.Props) Manifest {
	runtime := NewList(baselineRuntime...)
	for _, provider := range project.CanonicalProviders(p.Providers) {
		for _, spec := range providerAdapters[provider] {
			runtime = runtime.With(ParseSpec(spec))
		}
	}

	dev := NewList(baselineDev...)
	if spec, ok := testerPackages[p.Tester]; ok {
		dev = dev.With(ParseSpec(spec))
	}

	if p.TypeScript {
		dev = typed(runtime, dev.Without(typedExcluded...), p.Tester)
	}

	return Manifest{Runtime: runtime, Dev: dev}
}

// typed appends the declaration packages and TypeScript tooling to dev.
func typed(runtime, dev List, tester project.Tester) List {
	out := dev
	for _, l := range []List{runtime, dev} {
		for _, d := range l.items {
			if d.Name == string(tester) {
				continue
			}
			if spec, ok := typeDeclarations[d.Name]; ok {
				out = out.With(ParseSpec(spec))
			}
		}
	}
	for _, spec := range typedTooling {
		out = out.With(ParseSpec(spec))
	}
	if spec, ok := typeDeclarations[string(tester)]; ok {
		out = out.With(ParseSpec(spec))
	}
	if spec, ok := typedRunners[tester]; ok {
		out = out.With(ParseSpec(spec))
	}
	return out
}

// KnownNames returns every package any run may install, as spec strings. A
// project must not share its name with any of them.
func KnownNames() []string {
	all := NewList(baselineRuntime...).Items()
	all = append(all, NewList(baselineDev...).Items()...)
	known := List{}
	for _, d := range all {
		known = known.With(d)
	}
	for _, provider := range project.Providers {
		for _, spec := range providerAdapters[provider] {
			known = known.With(ParseSpec(spec))
		}
	}
	for _, tester := range project.Testers {
		known = known.With(ParseSpec(testerPackages[tester]))
		known = known.With(ParseSpec(typeDeclarations[string(tester)]))
		known = known.With(ParseSpec(typedRunners[tester]))
	}
	for _, spec := range typedTooling {
		known = known.With(ParseSpec(spec))
	}
	for _, l := range []List{NewList(baselineRuntime...), NewList(baselineDev...)} {
		for _, name := range l.Names() {
			if spec, ok := typeDeclarations[name]; ok {
				known = known.With(ParseSpec(spec))
			}
		}
	}
	return known.Specs()
}
