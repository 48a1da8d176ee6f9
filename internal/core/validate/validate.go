// Package validate holds the pure checks a candidate value must pass before
// it is accepted into a project's Props. Every function is side-effect free
// and can be called again on each revision of a candidate.
package validate

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/project"
)

// Name normalizes candidate and checks it against the known dependency spec
// strings. It returns the normalized name.
func Name(candidate string, known []string) (string, error) {
	name := project.KebabCase(candidate)
	if name == "" {
		return "", &InvalidChoiceError{Field: project.FieldName, Value: candidate, Reason: "must contain at least one letter or digit"}
	}
	for _, r := range name {
		if r > unicode.MaxASCII {
			return "", &InvalidChoiceError{Field: project.FieldName, Value: candidate, Reason: "must only contain URL-safe characters"}
		}
	}
	for _, spec := range known {
		if deps.BareName(spec) == name {
			return "", &SelfReferentialNameError{Field: project.FieldName, Value: name}
		}
	}
	return name, nil
}

// Providers parses and canonicalizes a provider selection.
func Providers(candidate []string) ([]project.Provider, error) {
	if len(candidate) == 0 {
		return nil, &InvalidChoiceError{Field: project.FieldProviders, Value: "", Reason: "select at least one provider"}
	}
	parsed := make([]project.Provider, 0, len(candidate))
	for _, c := range candidate {
		p := project.Provider(strings.ToLower(strings.TrimSpace(c)))
		if !p.Valid() {
			return nil, &InvalidChoiceError{Field: project.FieldProviders, Value: c, Reason: "unknown provider"}
		}
		parsed = append(parsed, p)
	}
	parsed = project.CanonicalProviders(parsed)

	hasSocketIO, hasPrimus := false, false
	for _, p := range parsed {
		hasSocketIO = hasSocketIO || p == project.SocketIO
		hasPrimus = hasPrimus || p == project.Primus
	}
	if hasSocketIO && hasPrimus {
		values := make([]string, len(parsed))
		for i, p := range parsed {
			values[i] = string(p)
		}
		return nil, &ConflictingProviderError{Field: project.FieldProviders, Value: values}
	}
	return parsed, nil
}

// Tester checks that candidate names a supported test framework.
func Tester(candidate string) (project.Tester, error) {
	t := project.Tester(strings.ToLower(strings.TrimSpace(candidate)))
	if !t.Valid() {
		return "", &InvalidChoiceError{Field: project.FieldTester, Value: candidate, Reason: "expected mocha or jest"}
	}
	return t, nil
}

// Packager parses a "name@constraint" package manager selection.
func Packager(candidate string) (project.Packager, error) {
	pm, err := project.ParsePackager(candidate)
	if err != nil {
		return project.Packager{}, &InvalidChoiceError{Field: project.FieldPackager, Value: candidate, Reason: err.Error()}
	}
	return pm, nil
}

// Src checks that candidate is a relative directory inside the project.
func Src(candidate string) (string, error) {
	dir := strings.TrimSpace(candidate)
	if dir == "" {
		return "", &InvalidChoiceError{Field: project.FieldSrc, Value: candidate, Reason: "must not be empty"}
	}
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, "/") {
		return "", &InvalidChoiceError{Field: project.FieldSrc, Value: candidate, Reason: "must be relative to the project root"}
	}
	clean := path.Clean(filepath.ToSlash(dir))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &InvalidChoiceError{Field: project.FieldSrc, Value: candidate, Reason: "must stay inside the project root"}
	}
	return clean, nil
}

// Props checks a complete bag. It reports the first failing field.
func Props(p project.Props, known []string) error {
	if p.Name == "" {
		return &UnresolvedPropertyError{Field: project.FieldName}
	}
	name, err := Name(p.Name, known)
	if err != nil {
		return err
	}
	if name != p.Name {
		return &InvalidChoiceError{Field: project.FieldName, Value: p.Name, Reason: "not normalized, expected " + name}
	}
	if _, err := Src(p.Src); err != nil {
		return err
	}
	if _, err := Packager(p.Packager.String()); err != nil {
		return err
	}
	providers := make([]string, len(p.Providers))
	for i, provider := range p.Providers {
		providers[i] = string(provider)
	}
	if _, err := Providers(providers); err != nil {
		return err
	}
	if _, err := Tester(string(p.Tester)); err != nil {
		return err
	}
	return nil
}
