package domain

import "errors"

// Sentinel errors for the service layer. Wrap with fmt.Errorf("...: %w", Err*)
// and match at the HTTP boundary with errors.Is.
var (
	// ErrNotFound covers both "row absent" and "row not owned by caller".
	// Conflating the two keeps non-owners from probing for existence.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates bad input (name, extension, missing field).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks a required capability.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates the resource already exists.
	ErrConflict = errors.New("already exists")
)
