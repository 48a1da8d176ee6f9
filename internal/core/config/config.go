package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/sprout/internal/core/project"
)

const DescriptorName = "package.json"
const AnswersName = "sprout.toml"

// Descriptor is the subset of an existing package.json that pre-fills a run.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Directories struct {
		Lib string `json:"lib"`
	} `json:"directories"`
}

// LoadDescriptor reads package.json from dirPath. A missing file is reported
// with an error satisfying os.IsNotExist.
func LoadDescriptor(dirPath string) (*Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(dirPath, DescriptorName))
	if err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DescriptorName, err)
	}
	return &d, nil
}

// Answers holds preset answers read from a sprout.toml file.
//
//	[project]
//	name = "my-service"
//	description = "An API"
//	src = "src"
//
//	[stack]
//	typescript = false
//	packager = "npm@>= 3.0.0"
//	providers = ["rest", "socketio"]
//	tester = "mocha"
type Answers struct {
	Project ProjectAnswers `toml:"project"`
	Stack   StackAnswers   `toml:"stack"`
}

// ProjectAnswers holds the [project] table.
type ProjectAnswers struct {
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`
	Src         string `toml:"src,omitempty"`
}

// StackAnswers holds the [stack] table. TypeScript is a pointer so that an
// absent key can be told apart from false.
type StackAnswers struct {
	TypeScript *bool    `toml:"typescript"`
	Packager   string   `toml:"packager,omitempty"`
	Providers  []string `toml:"providers,omitempty"`
	Tester     string   `toml:"tester,omitempty"`
}

// LoadAnswers reads and decodes the answers file at path.
func LoadAnswers(path string) (*Answers, error) {
	var a Answers
	meta, err := toml.DecodeFile(path, &a)
	if err != nil {
		return nil, fmt.Errorf("failed to decode answers file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in answers file %s", undecoded[0].String(), path)
	}
	return &a, nil
}

// AnswersFrom returns the answers that reproduce p when loaded again.
func AnswersFrom(p project.Props) *Answers {
	ts := p.TypeScript
	providers := make([]string, len(p.Providers))
	for i, pr := range p.Providers {
		providers[i] = string(pr)
	}
	return &Answers{
		Project: ProjectAnswers{Name: p.Name, Description: p.Description, Src: p.Src},
		Stack: StackAnswers{
			TypeScript: &ts,
			Packager:   p.Packager.String(),
			Providers:  providers,
			Tester:     string(p.Tester),
		},
	}
}

// WriteAnswers encodes a to path, overwriting any existing file.
func WriteAnswers(path string, a *Answers) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return toml.NewEncoder(file).Encode(a)
}
