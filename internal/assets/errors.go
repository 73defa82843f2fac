// Package assets copies static files into the build output.
package assets

import "fmt"

// CopyError represents a failure while cleaning or copying an asset tree
type CopyError struct {
	Path    string
	Message string
	Cause   error
}

func (e *CopyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("copy error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("copy error for %s: %s", e.Path, e.Message)
}

func (e *CopyError) Unwrap() error {
	return e.Cause
}
