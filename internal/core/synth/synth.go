// Package synth builds the JSON configuration artifacts of a generated
// project. Every function is a pure mapping from project.Props.
package synth

import (
	"errors"
	"fmt"
	"path"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/project"
)

// Artifact file names. Other tooling relies on them.
const (
	PackageFile  = "package.json"
	TSConfigFile = "tsconfig.json"
	ESLintFile   = ".eslintrc.json"
)

// Environment selects a runtime configuration file.
type Environment string

const (
	EnvDefault    Environment = "default"
	EnvProduction Environment = "production"
)

// ErrUnknownEnvironment is returned by Runtime for environments other than
// default and production.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Artifact is one JSON file to emit. Path is relative to the project root.
type Artifact struct {
	Path string
	Body any
}

// Author identifies the project author in package.json.
type Author struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Directories mirrors the package.json "directories" block.
type Directories struct {
	Lib    string `json:"lib"`
	Test   string `json:"test"`
	Config string `json:"config"`
}

// PackageJSON is the generated package manifest.
type PackageJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Version         string            `json:"version"`
	Homepage        string            `json:"homepage"`
	Main            string            `json:"main"`
	Types           string            `json:"types,omitempty"`
	Keywords        []string          `json:"keywords"`
	Author          Author            `json:"author"`
	Contributors    []string          `json:"contributors"`
	Bugs            map[string]string `json:"bugs"`
	Directories     Directories       `json:"directories"`
	Engines         map[string]string `json:"engines"`
	Scripts         Scripts           `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Scripts is the package.json "scripts" block. Fields that do not apply to
// the selected variant are left empty and omitted.
type Scripts struct {
	Test    string `json:"test"`
	Lint    string `json:"lint,omitempty"`
	Dev     string `json:"dev"`
	Start   string `json:"start"`
	Compile string `json:"compile,omitempty"`
	Mocha   string `json:"mocha,omitempty"`
	Jest    string `json:"jest,omitempty"`
}

// NodeEngine is the node version range written to package.json engines.
const NodeEngine = ">= 10.0.0"

// Package builds package.json for p. The test script runs the selected
// tester through its own script entry.
func Package(p project.Props) PackageJSON {
	pm := p.Packager.Name
	if pm == "" {
		pm = "npm"
	}
	src := p.Src

	pkg := PackageJSON{
		Name:         p.Name,
		Description:  p.Description,
		Version:      "0.0.0",
		Homepage:     "",
		Main:         src,
		Keywords:     []string{"feathers"},
		Contributors: []string{},
		Bugs:         map[string]string{},
		Directories: Directories{
			Lib:    src,
			Test:   project.TestDir + "/",
			Config: project.ConfigDir + "/",
		},
		Engines: map[string]string{
			"node": NodeEngine,
			pm:     p.Packager.Constraint,
		},
	}

	if p.TypeScript {
		pkg.Main = "lib/index"
		pkg.Types = "lib/"
		pkg.Scripts = Scripts{
			Test:    fmt.Sprintf("%s run compile && %s run %s", pm, pm, p.Tester),
			Dev:     fmt.Sprintf("ts-node-dev --no-notify %s/", src),
			Start:   fmt.Sprintf("%s run compile && node lib/", pm),
			Compile: "shx rm -rf lib/ && tsc",
		}
	} else {
		pkg.Scripts = Scripts{
			Test:  fmt.Sprintf("%s run lint && %s run %s", pm, pm, p.Tester),
			Lint:  fmt.Sprintf("eslint %s/. %s/. --config %s", src, project.TestDir, ESLintFile),
			Dev:   fmt.Sprintf("nodemon %s/", src),
			Start: fmt.Sprintf("node %s/", src),
		}
	}

	switch p.Tester {
	case project.Mocha:
		if p.TypeScript {
			pkg.Scripts.Mocha = fmt.Sprintf("ts-mocha \"%s/**/*.ts\" --recursive --exit", project.TestDir)
		} else {
			pkg.Scripts.Mocha = fmt.Sprintf("mocha %s/ --recursive --exit", project.TestDir)
		}
	case project.Jest:
		pkg.Scripts.Jest = "jest --forceExit"
	}

	return pkg
}

// WithDependencies returns pkg with the manifest recorded in its dependency
// blocks.
func WithDependencies(pkg PackageJSON, m deps.Manifest) PackageJSON {
	if m.Runtime.Len() > 0 {
		pkg.Dependencies = m.Runtime.Map()
	}
	if m.Dev.Len() > 0 {
		pkg.DevDependencies = m.Dev.Map()
	}
	return pkg
}

// TSCompilerOptions is the tsconfig.json "compilerOptions" block.
type TSCompilerOptions struct {
	Target          string `json:"target"`
	Module          string `json:"module"`
	OutDir          string `json:"outDir"`
	RootDir         string `json:"rootDir"`
	Strict          bool   `json:"strict"`
	EsModuleInterop bool   `json:"esModuleInterop"`
}

// TSConfig is the generated tsconfig.json.
type TSConfig struct {
	CompilerOptions TSCompilerOptions `json:"compilerOptions"`
	Exclude         []string          `json:"exclude"`
}

// TypeScript builds tsconfig.json. ok is false for the untyped variant.
func TypeScript(p project.Props) (TSConfig, bool) {
	if !p.TypeScript {
		return TSConfig{}, false
	}
	return TSConfig{
		CompilerOptions: TSCompilerOptions{
			Target:          "es2018",
			Module:          "commonjs",
			OutDir:          "./lib",
			RootDir:         "./" + p.Src,
			Strict:          true,
			EsModuleInterop: true,
		},
		Exclude: []string{project.TestDir},
	}, true
}

// ESLintConfig is the generated .eslintrc.json.
type ESLintConfig struct {
	Env           map[string]bool  `json:"env"`
	ParserOptions map[string]int   `json:"parserOptions"`
	Extends       string           `json:"extends"`
	Rules         map[string][]any `json:"rules"`
}

// ESLint builds .eslintrc.json. ok is false for the typed variant, which
// ships a static tslint.json instead.
func ESLint(p project.Props) (ESLintConfig, bool) {
	if p.TypeScript {
		return ESLintConfig{}, false
	}
	env := map[string]bool{
		"es6":  true,
		"node": true,
	}
	if p.Tester.Valid() {
		env[string(p.Tester)] = true
	}
	return ESLintConfig{
		Env:           env,
		ParserOptions: map[string]int{"ecmaVersion": 2018},
		Extends:       "eslint:recommended",
		Rules: map[string][]any{
			"indent":          {"error", 2},
			"linebreak-style": {"error", "unix"},
			"quotes":          {"error", "single"},
			"semi":            {"error", "always"},
		},
	}, true
}

// Paginate is the default pagination block of a runtime config.
type Paginate struct {
	Default int `json:"default"`
	Max     int `json:"max"`
}

// RuntimeConfig is one config/<env>.json file. Production leaves the
// default-only keys empty so that it is a partial override of default.
type RuntimeConfig struct {
	Host     string    `json:"host"`
	Port     any       `json:"port"`
	Public   string    `json:"public,omitempty"`
	Paginate *Paginate `json:"paginate,omitempty"`
}

// Runtime builds the runtime config for env.
func Runtime(p project.Props, env Environment) (RuntimeConfig, error) {
	switch env {
	case EnvDefault:
		return RuntimeConfig{
			Host:     "localhost",
			Port:     3030,
			Public:   "../public/",
			Paginate: &Paginate{Default: 10, Max: 50},
		}, nil
	case EnvProduction:
		return RuntimeConfig{
			Host: p.Name + "-app.example.com",
			Port: "PORT",
		}, nil
	default:
		return RuntimeConfig{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
}

// Artifacts lists every JSON file to emit for p, in emission order.
func Artifacts(p project.Props, m deps.Manifest) ([]Artifact, error) {
	out := []Artifact{
		{Path: PackageFile, Body: WithDependencies(Package(p), m)},
	}
	if ts, ok := TypeScript(p); ok {
		out = append(out, Artifact{Path: TSConfigFile, Body: ts})
	}
	if lint, ok := ESLint(p); ok {
		out = append(out, Artifact{Path: ESLintFile, Body: lint})
	}
	for _, env := range []Environment{EnvDefault, EnvProduction} {
		cfg, err := Runtime(p, env)
		if err != nil {
			return nil, err
		}
		out = append(out, Artifact{Path: path.Join(project.ConfigDir, string(env)+".json"), Body: cfg})
	}
	return out, nil
}
