package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Service-level failures that handlers translate to HTTP statuses.
// Not-found conditions surface as repositories.ErrNotFound.
var (
	// ErrUnauthorized is returned when an operation requires a caller
	// identity and none was presented.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the caller is authenticated but
	// their role does not allow the operation.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports input that violates field constraints, with
// per-field detail for the response body.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
