package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nightconcept/sprout/internal/core/scaffold"
)

// ErrCancelled is returned when the user aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// FormPrompter asks every question as its own huh form. Validation runs
// inside the form, so an invalid reply is shown inline and asked again.
type FormPrompter struct {
	Theme *huh.Theme
}

// NewFormPrompter returns a FormPrompter using the base huh theme.
func NewFormPrompter() *FormPrompter {
	return &FormPrompter{Theme: huh.ThemeBase()}
}

// Ask runs a single-field form for q.
func (p *FormPrompter) Ask(ctx context.Context, q scaffold.Question) (scaffold.Answer, error) {
	answer := q.Default
	form := huh.NewForm(huh.NewGroup(buildField(q, &answer, rejection(q)))).
		WithTheme(p.Theme).
		WithAccessible(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return scaffold.Answer{}, ErrCancelled
		}
		return scaffold.Answer{}, fmt.Errorf("prompt %s: %w", q.Field, err)
	}
	if q.Kind == scaffold.KindInput && strings.TrimSpace(answer.Text) == "" {
		answer.Text = q.Default.Text
	}
	return answer, nil
}

func buildField(q scaffold.Question, answer *scaffold.Answer, desc string) huh.Field {
	check := func(a scaffold.Answer) error {
		if q.Validate == nil {
			return nil
		}
		return q.Validate(a)
	}

	switch q.Kind {
	case scaffold.KindConfirm:
		return huh.NewConfirm().
			Title(q.Message).
			Description(desc).
			Affirmative("Yes").
			Negative("No").
			Value(&answer.Yes)

	case scaffold.KindSelect:
		return huh.NewSelect[string]().
			Title(q.Message).
			Description(desc).
			Options(options(q)...).
			Value(&answer.Text).
			Validate(func(v string) error {
				return check(scaffold.Answer{Text: v})
			})

	case scaffold.KindMultiSelect:
		return huh.NewMultiSelect[string]().
			Title(q.Message).
			Description(desc).
			Options(options(q)...).
			Value(&answer.Items).
			Validate(func(v []string) error {
				return check(scaffold.Answer{Items: v})
			})

	default:
		def := q.Default.Text
		inp := huh.NewInput().
			Title(q.Message).
			Description(desc).
			Value(&answer.Text).
			Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					v = def
				}
				return check(scaffold.Answer{Text: v})
			})
		if def != "" {
			inp = inp.Placeholder(def)
		}
		return inp
	}
}

// rejection describes why the previous answer was not accepted.
func rejection(q scaffold.Question) string {
	if q.Rejected == nil {
		return ""
	}
	return q.Rejected.Error()
}

func options(q scaffold.Question) []huh.Option[string] {
	opts := make([]huh.Option[string], len(q.Choices))
	for i, c := range q.Choices {
		opt := huh.NewOption(c.Label, c.Value)
		if q.Kind == scaffold.KindMultiSelect && slices.Contains(q.Default.Items, c.Value) {
			opt = opt.Selected(true)
		}
		opts[i] = opt
	}
	return opts
}
