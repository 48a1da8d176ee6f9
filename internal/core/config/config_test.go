package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/sprout/internal/core/project"
)

func TestLoadDescriptor_Valid(t *testing.T) {
	tempDir := t.TempDir()
	content := `{
  "name": "existing-app",
  "description": "Already here",
  "version": "1.0.0",
  "directories": { "lib": "server", "test": "test/" }
}`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, DescriptorName), []byte(content), 0644))

	d, err := LoadDescriptor(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "existing-app", d.Name)
	assert.Equal(t, "Already here", d.Description)
	assert.Equal(t, "server", d.Directories.Lib)
}

func TestLoadDescriptor_NotFound(t *testing.T) {
	_, err := LoadDescriptor(t.TempDir())
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err), "Error should be a 'file not found' type error")
}

func TestLoadDescriptor_InvalidFormat(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, DescriptorName), []byte(`{"name": `), 0644))

	_, err := LoadDescriptor(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing package.json")
}

func TestLoadAnswers_Valid(t *testing.T) {
	tempDir := t.TempDir()
	content := `
[project]
name = "answered"
description = "From a file"

[stack]
typescript = true
packager = "yarn"
providers = ["rest", "primus"]
tester = "jest"
`
	path := filepath.Join(tempDir, AnswersName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "answered", a.Project.Name)
	assert.Equal(t, "From a file", a.Project.Description)
	assert.Empty(t, a.Project.Src)
	require.NotNil(t, a.Stack.TypeScript)
	assert.True(t, *a.Stack.TypeScript)
	assert.Equal(t, "yarn", a.Stack.Packager)
	assert.Equal(t, []string{"rest", "primus"}, a.Stack.Providers)
	assert.Equal(t, "jest", a.Stack.Tester)
}

func TestLoadAnswers_OmittedTypeScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnswersName)
	require.NoError(t, os.WriteFile(path, []byte("[stack]\ntester = \"mocha\"\n"), 0644))

	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Nil(t, a.Stack.TypeScript)
}

func TestLoadAnswers_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnswersName)
	require.NoError(t, os.WriteFile(path, []byte("[stack]\nframework = \"koa\"\n"), 0644))

	_, err := LoadAnswers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack.framework")
}

func TestLoadAnswers_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnswersName)
	require.NoError(t, os.WriteFile(path, []byte("[project\nname = 1"), 0644))

	_, err := LoadAnswers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode answers file")
}

func TestWriteAnswers_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnswersName)
	ts := false
	in := &Answers{
		Project: ProjectAnswers{Name: "round-trip", Src: "lib"},
		Stack:   StackAnswers{TypeScript: &ts, Providers: []string{"rest"}, Tester: "mocha"},
	}
	require.NoError(t, WriteAnswers(path, in))

	out, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAnswersFrom(t *testing.T) {
	p := project.Props{
		Name:       "chat-api",
		Src:        "lib",
		TypeScript: true,
		Packager:   project.Packager{Name: "yarn", Constraint: ">= 0.18.0"},
		Providers:  []project.Provider{project.REST, project.Primus},
		Tester:     project.Jest,
	}
	path := filepath.Join(t.TempDir(), AnswersName)
	require.NoError(t, WriteAnswers(path, AnswersFrom(p)))

	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "chat-api", a.Project.Name)
	assert.Empty(t, a.Project.Description)
	assert.Equal(t, "lib", a.Project.Src)
	require.NotNil(t, a.Stack.TypeScript)
	assert.True(t, *a.Stack.TypeScript)
	assert.Equal(t, "yarn@>= 0.18.0", a.Stack.Packager)
	assert.Equal(t, []string{"rest", "primus"}, a.Stack.Providers)
	assert.Equal(t, "jest", a.Stack.Tester)
}
