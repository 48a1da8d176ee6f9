package depscmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/cli/depscmd"
	"github.com/nightconcept/sprout/internal/core/lockfile"
)

// runDepsCommand executes 'deps' in workDir and returns its stdout.
func runDepsCommand(t *testing.T, workDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	defer func() {
		require.NoError(t, os.Chdir(originalWd))
	}()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		os.Stdout = originalStdout
		_ = r.Close()
	}()

	app := &cli.App{
		Name:     "sprout-test-deps",
		Commands: []*cli.Command{depscmd.NewDepsCommand()},
		ExitErrHandler: func(context *cli.Context, err error) {
			// Do nothing, let test assertions handle errors
		},
	}
	cmdErr := app.Run(append([]string{"sprout-test-deps", "deps"}, args...))

	_ = w.Close()
	var out bytes.Buffer
	_, readErr := out.ReadFrom(r)
	require.NoError(t, readErr)
	return out.String(), cmdErr
}

type depsOutput struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func decode(t *testing.T, out string) depsOutput {
	t.Helper()
	var d depsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &d), out)
	return d
}

func TestDeps_Defaults(t *testing.T) {
	out, err := runDepsCommand(t, t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "javascript [rest socketio] mocha")
	assert.Contains(t, out, "dependencies:")
	assert.Contains(t, out, "  @feathersjs/socketio ^3.2.9")
	assert.Contains(t, out, "  mocha ^6.0.2")
}

func TestDeps_TypeScriptJestJSON(t *testing.T) {
	out, err := runDepsCommand(t, t.TempDir(), "--ts", "--tester", "jest", "-p", "rest", "--json")
	require.NoError(t, err)

	d := decode(t, out)
	assert.Equal(t, "^1.3.1", d.Dependencies["@feathersjs/express"])
	assert.NotContains(t, d.Dependencies, "@feathersjs/socketio")
	assert.Contains(t, d.DevDependencies, "ts-jest")
	assert.Contains(t, d.DevDependencies, "@types/jest")
	assert.NotContains(t, d.DevDependencies, "eslint")
	assert.NotContains(t, d.DevDependencies, "nodemon")
	assert.NotContains(t, d.DevDependencies, "mocha")
}

func TestDeps_UsesRecordedStack(t *testing.T) {
	dir := t.TempDir()
	record := `
api_version = "1"

[project]
name = "recorded"
providers = ["rest", "primus"]
tester = "jest"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockfile.LockfileName), []byte(record), 0644))

	out, err := runDepsCommand(t, dir, "--json")
	require.NoError(t, err)
	d := decode(t, out)
	assert.Equal(t, "^6.2.1", d.Dependencies["ws"])
	assert.Contains(t, d.DevDependencies, "jest")

	out, err = runDepsCommand(t, dir, "--json", "--tester", "mocha")
	require.NoError(t, err)
	d = decode(t, out)
	assert.Contains(t, d.Dependencies, "@feathersjs/primus", "flags only override the choices they name")
	assert.Contains(t, d.DevDependencies, "mocha")
	assert.NotContains(t, d.DevDependencies, "jest")
}

func TestDeps_ConflictingProviders(t *testing.T) {
	_, err := runDepsCommand(t, t.TempDir(), "-p", "socketio", "-p", "primus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error in providers")
}

func TestDeps_UnknownTester(t *testing.T) {
	_, err := runDepsCommand(t, t.TempDir(), "--tester", "ava")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error in tester")
}

func TestDeps_BrokenRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockfile.LockfileName), []byte("api_version = ["), 0644))

	_, err := runDepsCommand(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error loading sprout-lock.toml")
}
