package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing entities. Callers check with errors.Is and
// translate into their own failure vocabulary (404, MCP tool error).
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// ValidationError reports a rejected input field. No mutation is committed
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
