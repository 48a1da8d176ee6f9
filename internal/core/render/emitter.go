package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightconcept/sprout/internal/core/hasher"
)

// Written records one file emitted by a FileEmitter.
type Written struct {
	Path string
	Hash string
}

// FileEmitter writes rendered templates and JSON artifacts below Root. It
// never reads back what it wrote; digests are taken from the bytes written.
type FileEmitter struct {
	Root     string
	Renderer Renderer

	written []Written
}

// NewFileEmitter returns an emitter rooted at root that renders the
// built-in templates.
func NewFileEmitter(root string) *FileEmitter {
	return &FileEmitter{Root: root, Renderer: NewRenderer(Templates())}
}

// Render renders job and writes the result to its destination.
func (e *FileEmitter) Render(job Job) error {
	content, err := e.Renderer.Render(job.Template, job.Context)
	if err != nil {
		return err
	}
	return e.write(job.Destination, content)
}

// WriteJSON writes v as indented JSON to rel.
func (e *FileEmitter) WriteJSON(rel string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rel, err)
	}
	return e.write(rel, append(content, '\n'))
}

// Written returns the files emitted so far, in order.
func (e *FileEmitter) Written() []Written {
	out := make([]Written, len(e.written))
	copy(out, e.written)
	return out
}

func (e *FileEmitter) write(rel string, content []byte) error {
	fullPath := filepath.Join(e.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	sum, err := hasher.CalculateSHA256(content)
	if err != nil {
		return err
	}
	e.written = append(e.written, Written{Path: filepath.ToSlash(rel), Hash: sum})
	return nil
}
