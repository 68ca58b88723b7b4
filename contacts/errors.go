/*
errors.go - Centralized error types for the contact domain

PURPOSE:
  All error categories in one place so the HTTP boundary can map them
  deterministically to status codes. Callers classify with errors.Is and
  errors.As, never by string matching.

ERROR CATEGORIES:
  1. NotFound  - referenced contact id does not exist
  2. Conflict  - a uniqueness invariant would be violated

USAGE:
  var conflict *contacts.ConflictError
  if errors.As(err, &conflict) {
      // conflict.Field is "phone" or "address", conflict.Value the claim
  }

SEE ALSO:
  - store/sqlite/sqlite.go: Produces these errors, including translation of
    database-level unique constraint violations into ConflictError
  - api/handlers.go: Maps them to 404 / 422
*/
package contacts

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced contact does not exist.
	ErrNotFound = errors.New("contact not found")

	// ErrConflict is the category for uniqueness violations. Concrete
	// failures are *ConflictError values that unwrap to this sentinel.
	ErrConflict = errors.New("value already assigned to another contact")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Field kinds reported by ConflictError.
const (
	FieldPhone   = "phone"
	FieldAddress = "address"
)

// ConflictError reports which value collided and in which namespace.
// It is returned both by pre-flight validation and by the translation of a
// storage-level unique constraint violation, so a race that slips past the
// pre-flight check surfaces identically.
type ConflictError struct {
	Field string // FieldPhone or FieldAddress
	Value string
}

func (e *ConflictError) Error() string {
	if e.Field == FieldAddress {
		return fmt.Sprintf("address %q is already assigned to another contact", e.Value)
	}
	return fmt.Sprintf("phone number %q is already assigned to another contact", e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing contact.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
