package resume

import "fmt"

// ParseError represents a malformed or unsupported resume document. Parse
// failures are deterministic: the same document fails the same way every
// time, so the orchestrator never retries them.
type ParseError struct {
	MimeType string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.MimeType, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.MimeType, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
