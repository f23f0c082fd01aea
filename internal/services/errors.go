package services

import "errors"

// Sentinel errors classifying every failure that may leave a service.
// Handlers translate them to HTTP statuses with errors.Is; anything that
// does not match one of these is an internal error.
var (
	// ErrValidation marks missing or malformed client input.
	ErrValidation = errors.New("invalid input")
	// ErrConflict marks a duplicate unique key (username, restaurant title).
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks a lookup that matched no entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials marks a failed password verification.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
