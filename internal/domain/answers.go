// internal/domain/answers.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Value is one raw answer: free text / a number typed as text / a single
// choice in Text, or the picks of a multi-select in Choices.
type Value struct {
	Text    string
	Choices []string
}

func Text(s string) Value { return Value{Text: s} }

func Choices(cs ...string) Value { return Value{Choices: cs} }

func (v Value) Empty() bool { return strings.TrimSpace(v.Text) == "" && len(v.Choices) == 0 }

func (v Value) Has(s string) bool { return v.Text == s || slices.Contains(v.Choices, s) }

func (v Value) IsList() bool { return v.Choices != nil }

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList() {
		return json.Marshal(v.Choices)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts strings, numbers, booleans, null and string arrays.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Value{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{Text: s}
	case b[0] == '[':
		var cs []string
		if err := json.Unmarshal(b, &cs); err != nil {
			return fmt.Errorf("answer list must contain strings: %w", err)
		}
		if cs == nil {
			cs = []string{}
		}
		*v = Value{Choices: cs}
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		if b[0] == 't' {
			*v = Value{Text: "Yes"}
		} else {
			*v = Value{Text: "No"}
		}
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("unsupported answer %s", b)
		}
		*v = Value{Text: strconv.FormatFloat(f, 'f', -1, 64)}
	}
	return nil
}

// Answers is the flat in-progress form model keyed by question id.
type Answers map[string]Value

func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if v.Choices != nil {
			v.Choices = slices.Clone(v.Choices)
		}
		out[k] = v
	}
	return out
}

func (a Answers) Text(id string) string {
	return strings.TrimSpace(a[id].Text)
}
