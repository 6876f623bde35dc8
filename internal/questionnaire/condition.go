// internal/questionnaire/condition.go
package questionnaire

import (
	"fmt"
	"slices"
	"strings"

	"planora/internal/numeric"
)

type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpAnswered Op = "answered"
)

// Condition is a small boolean expression over the answer set. Exactly one of
// All, Any, Not or the leaf fields (Field + Op) is set.
type Condition struct {
	All []Condition `toml:"all" json:"all,omitempty"`
	Any []Condition `toml:"any" json:"any,omitempty"`
	Not *Condition  `toml:"not" json:"not,omitempty"`

	Field  string   `toml:"field" json:"field,omitempty"`
	Op     Op       `toml:"op" json:"op,omitempty"`
	Value  string   `toml:"value" json:"value,omitempty"`
	Values []string `toml:"values" json:"values,omitempty"`
}

// Eval reports whether the condition holds. A nil condition always holds.
func (c *Condition) Eval(a Answers) bool {
	if c == nil {
		return true
	}
	switch {
	case len(c.All) > 0:
		for i := range c.All {
			if !c.All[i].Eval(a) {
				return false
			}
		}
		return true
	case len(c.Any) > 0:
		for i := range c.Any {
			if c.Any[i].Eval(a) {
				return true
			}
		}
		return false
	case c.Not != nil:
		return !c.Not.Eval(a)
	}
	return c.leaf(a)
}

func (c *Condition) leaf(a Answers) bool {
	v, ok := a[c.Field]
	switch c.Op {
	case OpAnswered:
		return ok && !v.Empty()
	case OpEq:
		return ok && v.Has(c.Value)
	case OpNe:
		return !ok || !v.Has(c.Value)
	case OpIn:
		if !ok {
			return false
		}
		return slices.ContainsFunc(c.Values, v.Has)
	case OpGt, OpGte, OpLt, OpLte:
		if !ok {
			return false
		}
		got, err := numeric.Parse(v.Text)
		if err != nil {
			return false
		}
		want, err := numeric.Parse(c.Value)
		if err != nil {
			return false
		}
		switch c.Op {
		case OpGt:
			return got > want
		case OpGte:
			return got >= want
		case OpLt:
			return got < want
		default:
			return got <= want
		}
	}
	return false
}

// fields lists every question id the condition reads.
func (c *Condition) fields() []string {
	if c == nil {
		return nil
	}
	var out []string
	for i := range c.All {
		out = append(out, c.All[i].fields()...)
	}
	for i := range c.Any {
		out = append(out, c.Any[i].fields()...)
	}
	if c.Not != nil {
		out = append(out, c.Not.fields()...)
	}
	if c.Field != "" {
		out = append(out, c.Field)
	}
	return out
}

func (c *Condition) check() error {
	if c == nil {
		return nil
	}
	set := 0
	if len(c.All) > 0 {
		set++
	}
	if len(c.Any) > 0 {
		set++
	}
	if c.Not != nil {
		set++
	}
	if c.Field != "" || c.Op != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("condition must have exactly one of all/any/not/field")
	}
	for i := range c.All {
		if err := c.All[i].check(); err != nil {
			return err
		}
	}
	for i := range c.Any {
		if err := c.Any[i].check(); err != nil {
			return err
		}
	}
	if c.Not != nil {
		return c.Not.check()
	}
	if len(c.All) > 0 || len(c.Any) > 0 {
		return nil
	}
	if c.Field == "" {
		return fmt.Errorf("condition with op %q has no field", c.Op)
	}
	switch c.Op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		if strings.TrimSpace(c.Value) == "" {
			return fmt.Errorf("condition on %q: op %q needs a value", c.Field, c.Op)
		}
	case OpIn:
		if len(c.Values) == 0 {
			return fmt.Errorf("condition on %q: op in needs values", c.Field)
		}
	case OpAnswered:
	default:
		return fmt.Errorf("condition on %q: unknown op %q", c.Field, c.Op)
	}
	return nil
}
