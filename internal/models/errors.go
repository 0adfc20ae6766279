package models

import "fmt"

// ValidationError reports a model-produced record that parsed as JSON
// but does not match the expected schema
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Message: "field is required"}
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
