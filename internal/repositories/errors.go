package repositories

import "errors"

// Store-level sentinel errors. Services translate these into their own
// taxonomy; repositories never shape HTTP responses.
var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	// The constraint is the authoritative uniqueness guard; service-level
	// existence pre-checks are only a fast path.
	ErrDuplicate = errors.New("duplicate entry")
)
