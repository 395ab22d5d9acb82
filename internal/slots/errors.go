package slots

import "fmt"

// ValidationError indicates a field value decoded correctly but fails that
// field's domain rule (negative income, credit score out of range, ...).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// UnknownFieldError indicates a payload field outside the recognized slot
// set. The calling layer emits extraneous keys routinely, so callers are
// expected to log and skip these rather than fail the update.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}
