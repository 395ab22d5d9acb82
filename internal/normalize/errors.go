package normalize

import "fmt"

// MalformedError indicates the input string does not contain a decodable
// JSON object even after cleaning tolerances are applied.
type MalformedError struct {
	Message string
	Cause   error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed payload: %s", e.Message)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a payload field decoded cleanly but has the
// wrong shape for its declared type (e.g. non-numeric income).
type TypeMismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: want %s, got %s", e.Field, e.Want, e.Got)
}
