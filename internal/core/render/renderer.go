package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"text/template"
)

//go:embed templates
var embedded embed.FS

// Templates returns the built-in template filesystem.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("render: embedded templates missing: %v", err))
	}
	return sub
}

var (
	// ErrTemplateNotFound is returned when a job names a template that does
	// not exist in the template filesystem.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateExecute is returned when a template references data the
	// context does not provide.
	ErrTemplateExecute = errors.New("template execution failed")
)

// Renderer renders a named template with the given data.
type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by fsys.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template in strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateExecute, templateName, err)
	}
	return buf.Bytes(), nil
}
