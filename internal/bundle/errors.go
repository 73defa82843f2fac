// Package bundle builds one JavaScript bundle per declared entry point.
package bundle

import (
	"fmt"
	"strings"
)

// BundleError collects the messages reported by the bundler.
type BundleError struct {
	Entry    string
	Messages []string
	Cause    error
}

func (e *BundleError) Error() string {
	var sb strings.Builder
	sb.WriteString("bundle error")
	if e.Entry != "" {
		sb.WriteString(fmt.Sprintf(" for %s", e.Entry))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	for _, msg := range e.Messages {
		sb.WriteString("\n  ")
		sb.WriteString(msg)
	}
	return sb.String()
}

func (e *BundleError) Unwrap() error {
	return e.Cause
}
