package analytics

import "fmt"

// ValidationError reports a malformed query parameter. Surfaced before
// any storage or cache access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
