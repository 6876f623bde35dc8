// internal/validator/validator.go
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"planora/internal/numeric"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New()

	// notblank: the string has at least one non-space character.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// amount: a free-form string that parses as a non-negative number ("50,000", "₹1200").
	_ = Validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := numeric.NonNegative(fl.Field().String())
		return err == nil
	})
}

// Struct validates v and flattens the failures into one readable error.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, FieldMessage(e.Field(), e))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

// Var validates a single value against tag and returns a user-facing message
// for the first failure, or "" when the value is acceptable.
func Var(name string, v any, tag string) string {
	err := Validate.Var(v, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FieldMessage(name, verrs[0])
	}
	return fmt.Sprintf("%s is invalid", name)
}

func FieldMessage(name string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", name)
	case "amount":
		return fmt.Sprintf("%s must be a non-negative number", name)
	case "min":
		if e.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", name)
		}
		return fmt.Sprintf("%s is too short", name)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
