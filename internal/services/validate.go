package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// validator accumulates field errors so a submission is checked in full
// before anything is persisted.
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) addf(field, format string, args ...interface{}) {
	v.add(field, fmt.Sprintf(format, args...))
}

// err returns nil when every check passed
func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func (v *validator) require(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "is required")
	}
	return value
}

func (v *validator) maxLen(field, value string, max int) {
	if len(value) > max {
		v.addf(field, "must be at most %d characters", max)
	}
}

func (v *validator) oneOf(field, value string, choices []string) {
	for _, c := range choices {
		if value == c {
			return
		}
	}
	v.addf(field, "must be one of: %s", strings.Join(choices, ", "))
}

// positiveDecimal parses a user-supplied amount and requires it to be > 0
func (v *validator) positiveDecimal(field, value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "is required")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		v.add(field, "must be a number")
		return decimal.Zero
	}
	if !d.IsPositive() {
		v.add(field, "must be greater than zero")
	}
	return d
}

// intInRange parses a user-supplied integer with inclusive bounds
func (v *validator) intInRange(field, value string, min, max int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "is required")
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		v.add(field, "must be a whole number")
		return 0
	}
	if n < min || n > max {
		v.addf(field, "must be between %d and %d", min, max)
	}
	return n
}

// coordinate parses an optional latitude/longitude value. Empty input means
// the coordinate is unset and reports (0, false).
func (v *validator) coordinate(field, value string, bound float64) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		v.add(field, "must be a number")
		return 0, false
	}
	if f < -bound || f > bound {
		v.addf(field, "must be between %.0f and %.0f", -bound, bound)
		return 0, false
	}
	return f, true
}

// date parses a required YYYY-MM-DD value
func (v *validator) date(field, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "is required")
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		v.add(field, "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}
	return t
}

// optionalDate parses an optional YYYY-MM-DD value
func (v *validator) optionalDate(field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		v.add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}
