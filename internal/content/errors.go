// Package content turns Markdown slide sources into content assets.
package content

import "fmt"

// EmitError represents a failure to emit a content asset
type EmitError struct {
	Source  string
	Message string
	Cause   error
}

func (e *EmitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("content error for %s: %s", e.Source, e.Message)
}

func (e *EmitError) Unwrap() error {
	return e.Cause
}
