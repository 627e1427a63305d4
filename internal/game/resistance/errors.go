package resistance

import (
	"fmt"
	"strings"
)

// RangeError reports a single value outside its declared domain.
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d out of range [%d, %d]", e.Field, e.Value, int(MinLevel), int(MaxLevel))
}

// FieldError names one offending field and its value.
type FieldError struct {
	Field string
	Value int
}

// ValidationError reports every offending field found by a validation pass.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s=%d", fe.Field, fe.Value))
	}
	return "resistance validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the offending field paths in report order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func checkRange(field string, v int) error {
	if !Level(v).Valid() {
		return &RangeError{Field: field, Value: v}
	}
	return nil
}
