package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nightconcept/sprout/internal/core/scaffold"
	"github.com/nightconcept/sprout/internal/core/validate"
)

// LinePrompter asks questions one line at a time. It is used when stdin is
// not a terminal, e.g. when answers are piped in.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter returns a LinePrompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

// Ask prints q, reads a reply and asks again while the reply fails a
// recoverable validation.
func (p *LinePrompter) Ask(ctx context.Context, q scaffold.Question) (scaffold.Answer, error) {
	if q.Rejected != nil {
		_, _ = fmt.Fprintf(p.out, "%v\n", q.Rejected)
	}
	for {
		if err := ctx.Err(); err != nil {
			return scaffold.Answer{}, err
		}

		input, err := p.promptWithDefault(q)
		if err != nil {
			return scaffold.Answer{}, err
		}
		a, err := parse(q, input)
		if err == nil && q.Validate != nil {
			err = q.Validate(a)
		}
		if err == nil {
			return a, nil
		}

		var fe validate.FieldError
		if errors.As(err, &fe) && !fe.Recoverable() {
			return scaffold.Answer{}, err
		}
		_, _ = fmt.Fprintf(p.out, "%v\n", err)
	}
}

// promptWithDefault prints the question with its default and returns the
// trimmed reply.
func (p *LinePrompter) promptWithDefault(q scaffold.Question) (string, error) {
	for i, c := range q.Choices {
		_, _ = fmt.Fprintf(p.out, "  %d) %s [%s]\n", i+1, c.Label, c.Value)
	}
	if def := formatDefault(q); def != "" {
		_, _ = fmt.Fprintf(p.out, "%s (default: %s): ", q.Message, def)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s: ", q.Message)
	}

	input, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input for '%s': %w", q.Message, err)
	}
	return strings.TrimSpace(input), nil
}

func formatDefault(q scaffold.Question) string {
	switch q.Kind {
	case scaffold.KindConfirm:
		if q.Default.Yes {
			return "Y/n"
		}
		return "y/N"
	case scaffold.KindMultiSelect:
		return strings.Join(q.Default.Items, ", ")
	default:
		return q.Default.Text
	}
}

// parse turns a raw reply into an Answer. Select replies may be given as the
// choice number or its value; multi-select replies are comma separated.
func parse(q scaffold.Question, input string) (scaffold.Answer, error) {
	if input == "" {
		return q.Default, nil
	}
	switch q.Kind {
	case scaffold.KindConfirm:
		switch strings.ToLower(input) {
		case "y", "yes", "true":
			return scaffold.Answer{Yes: true}, nil
		case "n", "no", "false":
			return scaffold.Answer{Yes: false}, nil
		}
		return scaffold.Answer{}, &validate.InvalidChoiceError{Field: q.Field, Value: input, Reason: "answer y or n"}
	case scaffold.KindSelect:
		return scaffold.Answer{Text: choice(q, input)}, nil
	case scaffold.KindMultiSelect:
		var items []string
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, choice(q, part))
			}
		}
		return scaffold.Answer{Items: items}, nil
	default:
		return scaffold.Answer{Text: input}, nil
	}
}

func choice(q scaffold.Question, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Choices) {
		return q.Choices[n-1].Value
	}
	for _, c := range q.Choices {
		if strings.EqualFold(c.Label, input) {
			return c.Value
		}
	}
	return input
}
