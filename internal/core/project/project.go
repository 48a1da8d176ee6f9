package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Default values used when a field is not supplied by the user, the answers
// file or a pre-existing descriptor.
const (
	DefaultSrc      = "src"
	DefaultPackager = "npm@>= 3.0.0"
	DefaultTester   = Mocha
)

// Fixed directories of a generated project.
const (
	TestDir   = "test"
	ConfigDir = "config"
)

// Provider is a selectable API transport style.
type Provider string

const (
	REST     Provider = "rest"
	SocketIO Provider = "socketio"
	Primus   Provider = "primus"
)

// Providers lists every provider in canonical order.
var Providers = []Provider{REST, SocketIO, Primus}

// DefaultProviders is the preselected provider set.
var DefaultProviders = []Provider{REST, SocketIO}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

// Tester is the selected test framework.
type Tester string

const (
	Mocha Tester = "mocha"
	Jest  Tester = "jest"
)

// Testers lists every supported test framework.
var Testers = []Tester{Mocha, Jest}

// Valid reports whether t is a known tester.
func (t Tester) Valid() bool {
	return t == Mocha || t == Jest
}

// Packager is a package manager together with the minimum version the
// generated project requires from it.
type Packager struct {
	Name       string `toml:"name"`
	Constraint string `toml:"constraint"`
}

// Packagers lists the supported package managers with their default constraints.
var Packagers = []Packager{
	{Name: "npm", Constraint: ">= 3.0.0"},
	{Name: "yarn", Constraint: ">= 0.18.0"},
}

// ParsePackager parses a "name@constraint" string such as "npm@>= 3.0.0".
// A bare name picks the default constraint for that package manager.
func ParsePackager(s string) (Packager, error) {
	name, constraint, _ := strings.Cut(strings.TrimSpace(s), "@")
	name = strings.TrimSpace(name)
	constraint = strings.TrimSpace(constraint)

	var known *Packager
	for i := range Packagers {
		if Packagers[i].Name == name {
			known = &Packagers[i]
			break
		}
	}
	if known == nil {
		return Packager{}, fmt.Errorf("unknown package manager %q", name)
	}
	if constraint == "" {
		constraint = known.Constraint
	}
	if _, err := semver.NewConstraint(constraint); err != nil {
		return Packager{}, fmt.Errorf("invalid version constraint %q for %s: %w", constraint, name, err)
	}
	return Packager{Name: name, Constraint: constraint}, nil
}

// String renders the packager back into its "name@constraint" form.
func (p Packager) String() string {
	if p.Name == "" {
		return ""
	}
	return p.Name + "@" + p.Constraint
}

// Props is the validated record of every scaffolding option chosen for one run.
// It is passed by value once validated and never mutated afterwards.
type Props struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description,omitempty"`
	Src         string     `toml:"src"`
	TypeScript  bool       `toml:"typescript"`
	Packager    Packager   `toml:"packager"`
	Providers   []Provider `toml:"providers"`
	Tester      Tester     `toml:"tester"`
}

// HasProvider reports whether name is one of the selected providers.
func (p Props) HasProvider(name string) bool {
	for _, provider := range p.Providers {
		if string(provider) == name {
			return true
		}
	}
	return false
}

// SourceExt returns the file extension of generated source files.
func (p Props) SourceExt() string {
	if p.TypeScript {
		return "ts"
	}
	return "js"
}

// CanonicalProviders deduplicates providers and orders them canonically.
func CanonicalProviders(in []Provider) []Provider {
	out := make([]Provider, 0, len(in))
	for _, known := range Providers {
		for _, p := range in {
			if p == known {
				out = append(out, known)
				break
			}
		}
	}
	return out
}

// Field names as used by prompts, answers files and validation errors.
const (
	FieldTypeScript  = "typescript"
	FieldName        = "name"
	FieldDescription = "description"
	FieldSrc         = "src"
	FieldPackager    = "packager"
	FieldProviders   = "providers"
	FieldTester      = "tester"
)
