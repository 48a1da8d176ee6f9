// Package prompt provides the scaffold.Prompter implementations used by the
// CLI: a huh form for terminals, a line prompter for piped input and a
// preset prompter for non-interactive runs.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nightconcept/sprout/internal/core/scaffold"
)

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New picks a prompter. Non-interactive runs answer every question with its
// default; otherwise a huh form is used on a terminal and a line prompter
// everywhere else.
func New(in *os.File, out io.Writer, interactive bool) scaffold.Prompter {
	switch {
	case !interactive:
		return Preset{}
	case IsTerminal(in):
		return NewFormPrompter()
	default:
		return NewLinePrompter(in, out)
	}
}

// ErrNoInput is returned by Preset for an answer that needs correcting.
var ErrNoInput = errors.New("no input available to correct the answer")

// Preset answers every question with its default. A default that fails
// validation, or a question asked again after a rejected answer, is an
// error since nobody can be asked.
type Preset struct{}

// Ask returns q.Default after validating it.
func (Preset) Ask(ctx context.Context, q scaffold.Question) (scaffold.Answer, error) {
	if err := ctx.Err(); err != nil {
		return scaffold.Answer{}, err
	}
	err := q.Rejected
	if err == nil && q.Validate != nil {
		err = q.Validate(q.Default)
	}
	if err != nil {
		return scaffold.Answer{}, fmt.Errorf("%w: %w", ErrNoInput, err)
	}
	return q.Default, nil
}
