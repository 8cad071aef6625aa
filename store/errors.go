package store

import "errors"

// Sentinel errors returned by the stores. Handlers map these onto response
// codes; nothing below the handler layer writes HTTP status.
var (
	// ErrValidation means the input is malformed and the client can fix it.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound means no user matches the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotFound means no row matched the id+owner filter. It deliberately
	// does not distinguish a missing task from another user's task.
	ErrNotFound = errors.New("task not found or unauthorized")
	// ErrUnavailable means the store did not answer within the configured
	// timeout. Surfaced to clients as a generic server error.
	ErrUnavailable = errors.New("store unavailable")
)
