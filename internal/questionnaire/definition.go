// internal/questionnaire/definition.go
package questionnaire

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"planora/internal/domain"

	"github.com/BurntSushi/toml"
)

//go:embed definitions/*.toml
var definitionFiles embed.FS

var ErrUnknownQuestionnaire = errors.New("unknown questionnaire")

type Kind string

const (
	KindText        Kind = "text"
	KindLongText    Kind = "longtext"
	KindNumber      Kind = "number"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
)

type Question struct {
	ID       string     `toml:"id" json:"id"`
	Prompt   string     `toml:"prompt" json:"prompt"`
	Kind     Kind       `toml:"kind" json:"kind"`
	Group    string     `toml:"group" json:"group,omitempty"`
	Options  []string   `toml:"options" json:"options,omitempty"`
	Optional bool       `toml:"optional" json:"optional,omitempty"`
	When     *Condition `toml:"when" json:"when,omitempty"`
}

type Step struct {
	ID        string     `toml:"id" json:"id"`
	Title     string     `toml:"title" json:"title"`
	When      *Condition `toml:"when" json:"when,omitempty"`
	Questions []Question `toml:"questions" json:"questions"`
}

// Definition is a static questionnaire: an ordered list of steps.
type Definition struct {
	ID      domain.QuestionnaireID `toml:"id" json:"id"`
	Title   string                 `toml:"title" json:"title"`
	Version int                    `toml:"version" json:"version"`
	Steps   []Step                 `toml:"steps" json:"steps"`
}

// Question looks up a question by id across all steps.
func (d *Definition) Question(id string) (*Question, bool) {
	for i := range d.Steps {
		for j := range d.Steps[i].Questions {
			if d.Steps[i].Questions[j].ID == id {
				return &d.Steps[i].Questions[j], true
			}
		}
	}
	return nil, false
}

func (d *Definition) validate() error {
	if d.ID == "" {
		return errors.New("missing id")
	}
	if len(d.Steps) == 0 {
		return errors.New("no steps")
	}
	seen := map[string]bool{}
	steps := map[string]bool{}
	for _, st := range d.Steps {
		if st.ID == "" || steps[st.ID] {
			return fmt.Errorf("step %q: empty or duplicate id", st.ID)
		}
		steps[st.ID] = true
		if len(st.Questions) == 0 {
			return fmt.Errorf("step %q has no questions", st.ID)
		}
		for _, q := range st.Questions {
			if q.ID == "" || seen[q.ID] {
				return fmt.Errorf("question %q: empty or duplicate id", q.ID)
			}
			seen[q.ID] = true
			switch q.Kind {
			case KindText, KindLongText, KindNumber:
			case KindSelect, KindMultiSelect:
				if len(q.Options) == 0 {
					return fmt.Errorf("question %q: %s without options", q.ID, q.Kind)
				}
			default:
				return fmt.Errorf("question %q: unknown kind %q", q.ID, q.Kind)
			}
		}
	}
	for _, st := range d.Steps {
		conds := []*Condition{st.When}
		for i := range st.Questions {
			conds = append(conds, st.Questions[i].When)
		}
		for _, c := range conds {
			if err := c.check(); err != nil {
				return fmt.Errorf("step %q: %w", st.ID, err)
			}
			for _, f := range c.fields() {
				if !seen[f] {
					return fmt.Errorf("step %q: condition references unknown question %q", st.ID, f)
				}
			}
		}
	}
	return nil
}

// Registry holds the loaded definitions.
type Registry struct {
	defs  map[domain.QuestionnaireID]*Definition
	order []domain.QuestionnaireID
}

// LoadRegistry parses every definitions/*.toml file embedded in the binary.
func LoadRegistry() (*Registry, error) {
	return loadFS(definitionFiles, "definitions")
}

func loadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	r := &Registry{defs: map[domain.QuestionnaireID]*Definition{}}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var d Definition
		if _, err := toml.Decode(string(raw), &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Name(), err)
		}
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("definition %s: %w", e.Name(), err)
		}
		if _, dup := r.defs[d.ID]; dup {
			return nil, fmt.Errorf("definition %s: duplicate questionnaire id %q", e.Name(), d.ID)
		}
		r.defs[d.ID] = &d
		r.order = append(r.order, d.ID)
	}
	slices.Sort(r.order)
	return r, nil
}

func (r *Registry) Get(id domain.QuestionnaireID) (*Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionnaire, id)
	}
	return d, nil
}

func (r *Registry) List() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

type (
	Answers = domain.Answers
	Value   = domain.Value
)
