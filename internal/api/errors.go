package api

import (
	"errors"
	"strings"
)

// Sentinel errors for storage facts. Repositories return these (optionally
// wrapped) so the service and envelope layers can classify outcomes without
// ever inspecting driver error codes. Anything else crossing the service
// boundary is treated as an unclassified storage failure.
var (
	// ErrNotFound - no live record exists for the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate - a create/update collided with another record's name.
	// The uniqueness check is atomic and owned by the repository.
	ErrDuplicate = errors.New("duplicate location name")
)

// ValidationError carries the ordered, human-readable rule violations for a
// rejected payload. It never reaches a repository; it exists so the envelope
// can render the message list with a 400.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, " ")
}
