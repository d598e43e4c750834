package errors

import "errors"

// This package defines a centralized set of sentinel errors for the
// application. Services return these recognizable errors without knowing
// about HTTP; the API layer checks them with `errors.Is()` and maps them
// to the right status codes.

var (
	// ErrNotFound signifies that a requested resource (a session, a held
	// document) could not be located. Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource (e.g., requesting the held document while no
	// citation is selected). Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal signifies an unexpected server-side error, kept generic
	// to avoid leaking implementation details. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
