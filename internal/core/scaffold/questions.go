package scaffold

import (
	"strings"

	"github.com/nightconcept/sprout/internal/core/project"
	"github.com/nightconcept/sprout/internal/core/validate"
)

// Kind is the shape of answer a Question expects.
type Kind int

const (
	KindInput Kind = iota
	KindConfirm
	KindSelect
	KindMultiSelect
)

// Choice is one selectable option of a select or multi-select question.
type Choice struct {
	Label string
	Value string
}

// Answer holds the reply to a Question. Only the member matching the
// question's Kind is meaningful: Text for input and select, Yes for confirm,
// Items for multi-select.
type Answer struct {
	Text  string
	Yes   bool
	Items []string
}

// Question is a request for one field of the Props.
type Question struct {
	Field   string
	Kind    Kind
	Message string
	Default Answer
	Choices []Choice
	// Validate returns a validate.FieldError for an unacceptable answer. A
	// Prompter should ask again while the error is recoverable.
	Validate func(Answer) error
	// Rejected is set when the question is asked again. Default then holds
	// the rejected answer.
	Rejected error
}

// field binds a question to the code that stores its answer into Props.
type field struct {
	Question
	apply func(p *project.Props, a Answer) error
}

func newField(q Question, apply func(p *project.Props, a Answer) error) field {
	q.Validate = func(a Answer) error {
		var scratch project.Props
		return apply(&scratch, a)
	}
	return field{Question: q, apply: apply}
}

// fields returns the questions of a run in the order they are asked.
func fields(defaultName string, known []string) []field {
	packagers := make([]Choice, len(project.Packagers))
	for i, pm := range project.Packagers {
		packagers[i] = Choice{Label: pm.Name, Value: pm.String()}
	}
	defaultProviders := make([]string, len(project.DefaultProviders))
	for i, p := range project.DefaultProviders {
		defaultProviders[i] = string(p)
	}

	return []field{
		newField(Question{
			Field:   project.FieldTypeScript,
			Kind:    KindConfirm,
			Message: "Use TypeScript?",
			Default: Answer{Yes: false},
		}, func(p *project.Props, a Answer) error {
			p.TypeScript = a.Yes
			return nil
		}),
		newField(Question{
			Field:   project.FieldName,
			Kind:    KindInput,
			Message: "Project name",
			Default: Answer{Text: defaultName},
		}, func(p *project.Props, a Answer) error {
			name, err := validate.Name(a.Text, known)
			if err != nil {
				return err
			}
			p.Name = name
			return nil
		}),
		newField(Question{
			Field:   project.FieldDescription,
			Kind:    KindInput,
			Message: "Description",
		}, func(p *project.Props, a Answer) error {
			p.Description = strings.TrimSpace(a.Text)
			return nil
		}),
		newField(Question{
			Field:   project.FieldSrc,
			Kind:    KindInput,
			Message: "What folder should the source files live in?",
			Default: Answer{Text: project.DefaultSrc},
		}, func(p *project.Props, a Answer) error {
			src, err := validate.Src(a.Text)
			if err != nil {
				return err
			}
			p.Src = src
			return nil
		}),
		newField(Question{
			Field:   project.FieldPackager,
			Kind:    KindSelect,
			Message: "Which package manager are you using (has to be installed globally)?",
			Default: Answer{Text: project.DefaultPackager},
			Choices: packagers,
		}, func(p *project.Props, a Answer) error {
			pm, err := validate.Packager(a.Text)
			if err != nil {
				return err
			}
			p.Packager = pm
			return nil
		}),
		newField(Question{
			Field:   project.FieldProviders,
			Kind:    KindMultiSelect,
			Message: "What type of API are you making?",
			Default: Answer{Items: defaultProviders},
			Choices: []Choice{
				{Label: "REST", Value: string(project.REST)},
				{Label: "Realtime via Socket.io", Value: string(project.SocketIO)},
				{Label: "Realtime via Primus", Value: string(project.Primus)},
			},
		}, func(p *project.Props, a Answer) error {
			providers, err := validate.Providers(a.Items)
			if err != nil {
				return err
			}
			p.Providers = providers
			return nil
		}),
		newField(Question{
			Field:   project.FieldTester,
			Kind:    KindSelect,
			Message: "Which testing framework do you prefer?",
			Default: Answer{Text: string(project.DefaultTester)},
			Choices: []Choice{
				{Label: "Mocha + assert", Value: string(project.Mocha)},
				{Label: "Jest", Value: string(project.Jest)},
			},
		}, func(p *project.Props, a Answer) error {
			tester, err := validate.Tester(a.Text)
			if err != nil {
				return err
			}
			p.Tester = tester
			return nil
		}),
	}
}
