// internal/questionnaire/validate.go
package questionnaire

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	val "planora/internal/validator"
)

// FieldErrors maps question ids to a message. A non-empty FieldErrors blocks
// forward navigation.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	ids := make([]string, 0, len(fe))
	for id := range fe {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fe[id])
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

// checkAnswer returns "" when v is an acceptable answer to q.
func checkAnswer(q *Question, v Value) string {
	if v.Empty() {
		if q.Optional {
			return ""
		}
		if q.Kind == KindMultiSelect {
			return val.Var(q.ID, v.Choices, "min=1")
		}
		return val.Var(q.ID, "", "required")
	}

	switch q.Kind {
	case KindNumber:
		if v.IsList() {
			return fmt.Sprintf("%s must be a single number", q.ID)
		}
		return val.Var(q.ID, v.Text, "amount")
	case KindText, KindLongText:
		if v.IsList() {
			return fmt.Sprintf("%s must be text", q.ID)
		}
		return val.Var(q.ID, v.Text, "notblank")
	case KindSelect:
		if v.IsList() || !slices.Contains(q.Options, v.Text) {
			return fmt.Sprintf("%s must be one of: %s", q.ID, strings.Join(q.Options, ", "))
		}
	case KindMultiSelect:
		if msg := val.Var(q.ID, v.Choices, "min=1,dive,notblank"); msg != "" {
			return msg
		}
		for _, c := range v.Choices {
			if !slices.Contains(q.Options, c) {
				return fmt.Sprintf("%s: %q is not an option", q.ID, c)
			}
		}
	}
	return ""
}
