package service

import "fmt"

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field}
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
