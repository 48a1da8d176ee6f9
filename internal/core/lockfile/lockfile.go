// Package lockfile reads and writes sprout-lock.toml, the record of what a
// run generated: the final Props, the resolved dependencies in install order,
// and a digest for every emitted file.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/project"
)

const LockfileName = "sprout-lock.toml"
const APIVersion = "1"

// FileEntry records the digest of one generated file.
type FileEntry struct {
	Hash string `toml:"hash"`
}

// Lockfile represents the structure of the sprout-lock.toml file.
// Example:
//
//	api_version = "1"
//	dependencies = ["@feathersjs/feathers@^3.3.1", ...]
//	dev_dependencies = ["nodemon@^1.18.7", ...]
//
//	[project]
//	name = "my-service"
//
//	[files."package.json"]
//	hash = "sha256:<hash_value>"
type Lockfile struct {
	ApiVersion      string               `toml:"api_version"`
	Dependencies    []string             `toml:"dependencies"`
	DevDependencies []string             `toml:"dev_dependencies"`
	Project         project.Props        `toml:"project"`
	Files           map[string]FileEntry `toml:"files"`
}

// New creates a new Lockfile instance with default values.
func New() *Lockfile {
	return &Lockfile{
		ApiVersion: APIVersion,
		Files:      make(map[string]FileEntry),
	}
}

// Load loads the lockfile from the given project root path.
// If the lockfile doesn't exist, it returns an error satisfying os.IsNotExist.
func Load(projectRoot string) (*Lockfile, error) {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	if _, err := os.Stat(lockfilePath); err != nil {
		return nil, err
	}

	lf := New()
	if _, err := toml.DecodeFile(lockfilePath, lf); err != nil {
		return nil, fmt.Errorf("failed to decode lockfile %s: %w", lockfilePath, err)
	}
	if lf.ApiVersion == "" {
		lf.ApiVersion = APIVersion
	}
	if lf.Files == nil {
		lf.Files = make(map[string]FileEntry)
	}
	return lf, nil
}

// Save saves the lockfile to the given project root path.
func Save(projectRoot string, lf *Lockfile) error {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	file, err := os.Create(lockfilePath)
	if err != nil {
		return fmt.Errorf("failed to create/truncate lockfile %s: %w", lockfilePath, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(lf); err != nil {
		return fmt.Errorf("failed to encode lockfile %s: %w", lockfilePath, err)
	}
	return nil
}

// SetManifest records m in install order.
func (lf *Lockfile) SetManifest(m deps.Manifest) {
	lf.Dependencies = m.Runtime.Specs()
	lf.DevDependencies = m.Dev.Specs()
}

// Manifest rebuilds the recorded dependency manifest.
func (lf *Lockfile) Manifest() deps.Manifest {
	return deps.Manifest{
		Runtime: deps.NewList(lf.Dependencies...),
		Dev:     deps.NewList(lf.DevDependencies...),
	}
}

// AddOrUpdateFile records the digest of a generated file.
func (lf *Lockfile) AddOrUpdateFile(relativePath, integrityHash string) {
	if lf.Files == nil {
		lf.Files = make(map[string]FileEntry)
	}
	lf.Files[relativePath] = FileEntry{Hash: integrityHash}
}
