// internal/questionnaire/machine.go
package questionnaire

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrNotAtReview     = errors.New("questionnaire is not at the review step")
)

// Machine walks one questionnaire. Positions 0..len(Steps)-1 are steps; the
// position len(Steps) is the terminal review state. Steps whose condition does
// not hold are skipped in both directions.
type Machine struct {
	def     *Definition
	answers Answers
	pos     int
}

// NewMachine restores a machine at pos with the given answers. A position that
// is out of range or on a hidden step moves forward to the next visible one.
func NewMachine(def *Definition, answers Answers, pos int) *Machine {
	if answers == nil {
		answers = Answers{}
	}
	m := &Machine{def: def, answers: answers.Clone()}
	switch {
	case pos < 0:
		pos = 0
	case pos > m.reviewPos():
		pos = m.reviewPos()
	}
	if pos < m.reviewPos() && !m.StepVisible(pos) {
		pos = m.nextVisible(pos)
	}
	m.pos = pos
	return m
}

// Start begins def at its first visible step with no answers.
func Start(def *Definition) *Machine {
	return NewMachine(def, nil, 0)
}

func (m *Machine) Definition() *Definition { return m.def }

func (m *Machine) reviewPos() int { return len(m.def.Steps) }

func (m *Machine) Position() int { return m.pos }

func (m *Machine) AtReview() bool { return m.pos == m.reviewPos() }

// Current returns the step being shown, or nil at review.
func (m *Machine) Current() *Step {
	if m.AtReview() {
		return nil
	}
	return &m.def.Steps[m.pos]
}

func (m *Machine) Answers() Answers { return m.answers.Clone() }

func (m *Machine) StepVisible(i int) bool {
	return m.def.Steps[i].When.Eval(m.answers)
}

// VisibleQuestions lists the questions of step i whose conditions hold.
func (m *Machine) VisibleQuestions(i int) []Question {
	var out []Question
	for _, q := range m.def.Steps[i].Questions {
		if q.When.Eval(m.answers) {
			out = append(out, q)
		}
	}
	return out
}

// Set records an answer. An empty value clears it. When the change hides the
// current step the machine moves forward to the next visible one.
func (m *Machine) Set(id string, v Value) error {
	if _, ok := m.def.Question(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if v.Empty() {
		delete(m.answers, id)
	} else {
		m.answers[id] = v
	}
	if !m.AtReview() && !m.StepVisible(m.pos) {
		m.pos = m.nextVisible(m.pos)
	}
	return nil
}

func (m *Machine) validateStep(i int) FieldErrors {
	errs := FieldErrors{}
	if !m.StepVisible(i) {
		return errs
	}
	for _, q := range m.VisibleQuestions(i) {
		if msg := checkAnswer(&q, m.answers[q.ID]); msg != "" {
			errs[q.ID] = msg
		}
	}
	return errs
}

// Validate checks the current step without moving.
func (m *Machine) Validate() FieldErrors {
	if m.AtReview() {
		return FieldErrors{}
	}
	return m.validateStep(m.pos)
}

func (m *Machine) nextVisible(from int) int {
	for i := from + 1; i < m.reviewPos(); i++ {
		if m.StepVisible(i) {
			return i
		}
	}
	return m.reviewPos()
}

// Next advances to the next visible step, or to review after the last one.
// It declines and returns the field errors when the current step is incomplete.
func (m *Machine) Next() (FieldErrors, bool) {
	if m.AtReview() {
		return nil, false
	}
	if errs := m.validateStep(m.pos); len(errs) > 0 {
		return errs, false
	}
	m.pos = m.nextVisible(m.pos)
	return nil, true
}

// Previous moves back to the closest earlier visible step. It reports false
// when there is none.
func (m *Machine) Previous() bool {
	for i := m.pos - 1; i >= 0; i-- {
		if m.StepVisible(i) {
			m.pos = i
			return true
		}
	}
	return false
}

// Finalize re-validates every visible step from review and returns the answers
// to visible questions only. On failure the machine moves to the first
// incomplete step.
func (m *Machine) Finalize() (Answers, error) {
	if !m.AtReview() {
		return nil, ErrNotAtReview
	}
	final := Answers{}
	for i := range m.def.Steps {
		if !m.StepVisible(i) {
			continue
		}
		if errs := m.validateStep(i); len(errs) > 0 {
			m.pos = i
			return nil, errs
		}
		for _, q := range m.VisibleQuestions(i) {
			if v, ok := m.answers[q.ID]; ok {
				final[q.ID] = v
			}
		}
	}
	return final.Clone(), nil
}
