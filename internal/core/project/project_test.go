// Package project_test contains tests for the project package.
package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/sprout/internal/core/project"
)

func TestKebabCase(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"my-app":          "my-app",
		"My App":          "my-app",
		"myApp":           "my-app",
		"HTTPServer":      "http-server",
		"__foo__bar__":    "foo-bar",
		"app2go":          "app-2-go",
		"  Feathers API ": "feathers-api",
		"":                "",
		"---":             "",
		"Café":            "cafe",
		"Crème Brûlée":    "creme-brulee",
		"Straße":          "strasse",
		"ÆtherØ":          "aether-o",
	}
	for in, want := range cases {
		assert.Equal(t, want, project.KebabCase(in), "KebabCase(%q)", in)
	}
}

func TestDeburr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Cafe", project.Deburr("Café"))
	assert.Equal(t, "Cafe", project.Deburr("Cafe\u0301"), "combining marks are dropped")
	assert.Equal(t, "日本", project.Deburr("日本"), "non-Latin letters are kept")
}

func TestParsePackager(t *testing.T) {
	t.Parallel()

	pm, err := project.ParsePackager(project.DefaultPackager)
	require.NoError(t, err)
	assert.Equal(t, project.Packager{Name: "npm", Constraint: ">= 3.0.0"}, pm)
	assert.Equal(t, "npm@>= 3.0.0", pm.String())

	pm, err = project.ParsePackager("yarn")
	require.NoError(t, err)
	assert.Equal(t, ">= 0.18.0", pm.Constraint, "bare name should pick the default constraint")

	pm, err = project.ParsePackager("yarn@^1.22.0")
	require.NoError(t, err)
	assert.Equal(t, "^1.22.0", pm.Constraint)

	_, err = project.ParsePackager("pnpm@>= 7")
	assert.Error(t, err)

	_, err = project.ParsePackager("npm@not a constraint")
	assert.Error(t, err)
}

func TestPropsHasProvider(t *testing.T) {
	t.Parallel()
	p := project.Props{Providers: []project.Provider{project.REST, project.Primus}}

	assert.True(t, p.HasProvider("rest"))
	assert.True(t, p.HasProvider("primus"))
	assert.False(t, p.HasProvider("socketio"))
	assert.False(t, p.HasProvider("graphql"))
}

func TestCanonicalProviders(t *testing.T) {
	t.Parallel()
	in := []project.Provider{project.Primus, project.REST, project.Primus, "bogus"}
	assert.Equal(t, []project.Provider{project.REST, project.Primus}, project.CanonicalProviders(in))
	assert.Empty(t, project.CanonicalProviders(nil))
}

func TestSourceExt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "js", project.Props{}.SourceExt())
	assert.Equal(t, "ts", project.Props{TypeScript: true}.SourceExt())
}
