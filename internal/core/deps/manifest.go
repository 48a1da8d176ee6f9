// Package deps resolves the runtime and development dependencies of a
// generated project from its Props.
package deps

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Dependency is a package name with its version constraint.
type Dependency struct {
	Name       string
	Constraint string
}

// Spec renders the dependency as a "name@constraint" install argument.
func (d Dependency) Spec() string {
	if d.Constraint == "" {
		return d.Name
	}
	return d.Name + "@" + d.Constraint
}

// ParseSpec splits a "name@constraint" string. The leading "@" of a scoped
// package ("@scope/pkg@^1.0.0") is part of the name.
func ParseSpec(spec string) Dependency {
	name := BareName(spec)
	constraint := strings.TrimPrefix(spec[len(name):], "@")
	return Dependency{Name: name, Constraint: constraint}
}

// BareName strips the version or tag suffix from a spec string at the first
// "@" that is not the scope marker.
func BareName(spec string) string {
	search := spec
	offset := 0
	if strings.HasPrefix(spec, "@") {
		search = spec[1:]
		offset = 1
	}
	if i := strings.Index(search, "@"); i != -1 {
		return spec[:i+offset]
	}
	return spec
}

// List is an insertion-ordered set of dependencies keyed by package name.
// The zero value is an empty list. Operations return a new List.
type List struct {
	items []Dependency
}

// NewList builds a List from spec strings, dropping duplicates.
func NewList(specs ...string) List {
	var l List
	for _, s := range specs {
		l = l.With(ParseSpec(s))
	}
	return l
}

// With returns a list with d appended. If a dependency with the same name is
// already present the list is returned unchanged.
func (l List) With(d Dependency) List {
	if l.Has(d.Name) {
		return l
	}
	items := make([]Dependency, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return List{items: append(items, d)}
}

// Without returns a list with every dependency named in names removed.
func (l List) Without(names ...string) List {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	items := make([]Dependency, 0, len(l.items))
	for _, d := range l.items {
		if !drop[d.Name] {
			items = append(items, d)
		}
	}
	return List{items: items}
}

// Has reports whether a dependency called name is in the list.
func (l List) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

// Get returns the dependency called name.
func (l List) Get(name string) (Dependency, bool) {
	for _, d := range l.items {
		if d.Name == name {
			return d, true
		}
	}
	return Dependency{}, false
}

// Len returns the number of dependencies.
func (l List) Len() int { return len(l.items) }

// Items returns a copy of the dependencies in insertion order.
func (l List) Items() []Dependency {
	out := make([]Dependency, len(l.items))
	copy(out, l.items)
	return out
}

// Names returns the package names in insertion order.
func (l List) Names() []string {
	out := make([]string, len(l.items))
	for i, d := range l.items {
		out[i] = d.Name
	}
	return out
}

// Specs returns "name@constraint" strings in insertion order.
func (l List) Specs() []string {
	out := make([]string, len(l.items))
	for i, d := range l.items {
		out[i] = d.Spec()
	}
	return out
}

// Map returns the dependencies as a name -> constraint map.
func (l List) Map() map[string]string {
	out := make(map[string]string, len(l.items))
	for _, d := range l.items {
		out[d.Name] = d.Constraint
	}
	return out
}

// Manifest holds the resolved runtime and development dependencies.
type Manifest struct {
	Runtime List
	Dev     List
}

// Validate checks that every constraint in the manifest parses as a semver
// constraint.
func (m Manifest) Validate() error {
	for _, half := range []struct {
		label string
		list  List
	}{{"dependencies", m.Runtime}, {"devDependencies", m.Dev}} {
		for _, d := range half.list.items {
			if d.Constraint == "" {
				continue
			}
			if _, err := semver.NewConstraint(d.Constraint); err != nil {
				return fmt.Errorf("%s: invalid constraint %q for %s: %w", half.label, d.Constraint, d.Name, err)
			}
		}
	}
	return nil
}
