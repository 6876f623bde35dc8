// internal/numeric/numeric.go
package numeric

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrBlank     = errors.New("value is blank")
	ErrNotNumber = errors.New("value is not a number")
	ErrNegative  = errors.New("value must not be negative")
)

// noise is stripped before parsing: grouping separators, currency signs and spaces.
var noise = strings.NewReplacer(",", "", "_", "", "₹", "", "$", "", "€", "", " ", "", "\u00a0", "")

// Parse reads a free-form amount such as "50,000", "₹ 1200.50" or "42".
func Parse(s string) (float64, error) {
	clean := noise.Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, ErrBlank
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotNumber
	}
	return v, nil
}

// NonNegative is Parse with a lower bound of zero.
func NonNegative(s string) (float64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrNegative
	}
	return v, nil
}

// OrZero coerces anything unusable to 0.
func OrZero(s string) float64 {
	v, err := Parse(s)
	if err != nil {
		return 0
	}
	return v
}

// Ratio divides num by den, treating a zero denominator as a zero ratio.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
