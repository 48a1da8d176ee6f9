package initcmd_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/cli/initcmd"
	"github.com/nightconcept/sprout/internal/core/config"
	"github.com/nightconcept/sprout/internal/core/hasher"
	"github.com/nightconcept/sprout/internal/core/installer"
	"github.com/nightconcept/sprout/internal/core/lockfile"
	"github.com/nightconcept/sprout/internal/core/project"
)

// runInitCommand executes 'init' with the given arguments.
func runInitCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	app := &cli.App{
		Name:      "sprout-test-init",
		Commands:  []*cli.Command{initcmd.GetInitCommand()},
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		ExitErrHandler: func(context *cli.Context, err error) {
			// Do nothing, let test assertions handle errors
		},
	}
	return app.Run(append([]string{"sprout-test-init", "init"}, args...))
}

type packagerCall struct {
	Name string
	Args []string
}

// fakePackager stands in for npm/yarn. It reports version on --version and
// records every other invocation.
func fakePackager(t *testing.T, version string, installErr error) *[]packagerCall {
	t.Helper()
	var calls []packagerCall
	restore := installer.SetTestRunner(func(_ context.Context, _ string, out io.Writer, name string, args ...string) error {
		if len(args) == 1 && args[0] == "--version" {
			_, _ = fmt.Fprintln(out, version)
			return nil
		}
		calls = append(calls, packagerCall{Name: name, Args: args})
		return installErr
	})
	t.Cleanup(restore)
	return &calls
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestInit_NonInteractiveSkipInstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chat-service")
	err := runInitCommand(t, "--yes", "--skip-install", "--provider", "rest", "--tester", "jest", dir)
	require.NoError(t, err)

	pkg := readJSON(t, filepath.Join(dir, "package.json"))
	assert.Equal(t, "chat-service", pkg["name"])
	scripts := pkg["scripts"].(map[string]any)
	assert.Contains(t, scripts["test"], "npm run jest")

	for _, f := range []string{".eslintrc.json", "config/default.json", "config/production.json", "README.md", "src/app.js", "test/app.test.js"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}
	assert.NoFileExists(t, filepath.Join(dir, "tsconfig.json"))

	lf, err := lockfile.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "chat-service", lf.Project.Name)
	assert.Equal(t, []project.Provider{project.REST}, lf.Project.Providers)
	assert.Contains(t, lf.DevDependencies, "jest@^24.1.0")
	require.Contains(t, lf.Files, "package.json")
	for path, entry := range lf.Files {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		require.NoError(t, err)
		assert.True(t, hasher.Matches(content, entry.Hash), path)
	}
}

func TestInit_AnswersFile(t *testing.T) {
	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.toml")
	content := `
[project]
name = "fromFile"
src = "lib"

[stack]
typescript = true
packager = "yarn"
providers = ["rest", "primus"]
tester = "mocha"
`
	require.NoError(t, os.WriteFile(answers, []byte(content), 0644))

	target := filepath.Join(dir, "out")
	err := runInitCommand(t, "--yes", "--skip-install", "--answers", answers, "--name", "from-flag", target)
	require.NoError(t, err)

	lf, err := lockfile.Load(target)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", lf.Project.Name, "flags win over the answers file")
	assert.Equal(t, "lib", lf.Project.Src)
	assert.True(t, lf.Project.TypeScript)
	assert.Equal(t, "yarn", lf.Project.Packager.Name)
	assert.Equal(t, []project.Provider{project.REST, project.Primus}, lf.Project.Providers)
	assert.FileExists(t, filepath.Join(target, "tsconfig.json"))
	assert.FileExists(t, filepath.Join(target, "lib", "app.ts"))
}

func TestInit_AnswersFileInTargetDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sprout.toml"), []byte("[project]\nname = \"picked-up\"\n"), 0644))

	require.NoError(t, runInitCommand(t, "--yes", "--skip-install", dir))
	lf, err := lockfile.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "picked-up", lf.Project.Name)
}

func TestInit_SaveAnswers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInitCommand(t, "--yes", "--skip-install", "--save-answers",
		"--name", "Saved App", "--ts", "-p", "rest", "--tester", "jest", dir))

	a, err := config.LoadAnswers(filepath.Join(dir, config.AnswersName))
	require.NoError(t, err)
	assert.Equal(t, "saved-app", a.Project.Name)
	require.NotNil(t, a.Stack.TypeScript)
	assert.True(t, *a.Stack.TypeScript)
	assert.Equal(t, []string{"rest"}, a.Stack.Providers)
	assert.Equal(t, "jest", a.Stack.Tester)
	assert.Equal(t, project.DefaultPackager, a.Stack.Packager)

	// A second run in the same directory picks the saved answers up.
	again := filepath.Join(dir, "again")
	require.NoError(t, os.MkdirAll(again, 0755))
	raw, err := os.ReadFile(filepath.Join(dir, config.AnswersName))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(again, config.AnswersName), raw, 0644))
	require.NoError(t, runInitCommand(t, "--yes", "--skip-install", again))

	lf, err := lockfile.Load(again)
	require.NoError(t, err)
	assert.Equal(t, "saved-app", lf.Project.Name)
	assert.True(t, lf.Project.TypeScript)
	assert.Equal(t, project.Jest, lf.Project.Tester)
}

func TestInit_WithoutSaveAnswers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInitCommand(t, "--yes", "--skip-install", "--name", "api", dir))
	assert.NoFileExists(t, filepath.Join(dir, config.AnswersName))
}

func TestInit_ConflictingProviders(t *testing.T) {
	dir := t.TempDir()
	err := runInitCommand(t, "--yes", "--skip-install", "--name", "api", "-p", "socketio", "-p", "primus", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error in providers")
	assert.NoFileExists(t, filepath.Join(dir, "package.json"), "nothing is written for an invalid selection")
}

func TestInit_SelfReferentialName(t *testing.T) {
	err := runInitCommand(t, "--yes", "--skip-install", "--name", "helmet", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can not be named 'helmet'")
}

func TestInit_InvalidAnswersFile(t *testing.T) {
	dir := t.TempDir()
	answers := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(answers, []byte("[stack]\nframework = \"koa\"\n"), 0644))

	err := runInitCommand(t, "--yes", "--answers", answers, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestInit_Installs(t *testing.T) {
	calls := fakePackager(t, "9.8.1", nil)
	dir := t.TempDir()

	require.NoError(t, runInitCommand(t, "--yes", "--name", "api", "--packager", "yarn", dir))
	require.Len(t, *calls, 2)
	assert.Equal(t, "yarn", (*calls)[0].Name)
	assert.Equal(t, "add", (*calls)[0].Args[0])
	assert.Contains(t, (*calls)[0].Args, "winston@^3.0.0")
	assert.Equal(t, []string{"add", "--dev"}, (*calls)[1].Args[:2])
}

func TestInit_InstallFailureKeepsRecord(t *testing.T) {
	calls := fakePackager(t, "10.2.4", fmt.Errorf("exit status 1"))
	dir := t.TempDir()

	err := runInitCommand(t, "--yes", "--name", "api", dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "sprout install"), err.Error())
	assert.Len(t, *calls, 1, "dev install is not attempted after a failure")

	_, err = lockfile.Load(dir)
	assert.NoError(t, err, "the record is written before installation")
}

func TestInit_PackagerTooOld(t *testing.T) {
	calls := fakePackager(t, "2.15.0", nil)
	dir := t.TempDir()

	err := runInitCommand(t, "--yes", "--name", "api", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy constraint")
	assert.Empty(t, *calls)
}
