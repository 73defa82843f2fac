// Package scaffold creates a new slide deck from embedded starter files.
package scaffold

import "fmt"

// TemplateError represents an error parsing or executing a starter template
type TemplateError struct {
	Name    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error in %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error in %s: %s", e.Name, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// ExistsError is returned when Init would overwrite a file.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("refusing to overwrite existing file: %s", e.Path)
}
