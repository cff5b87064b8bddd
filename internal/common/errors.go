// Package common defines sentinel errors shared by the storage, service and
// HTTP layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Input errors.
	ErrValidation = errors.New("validation error")
	ErrInvalidID  = errors.New("invalid id")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid email/password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError describes one rejected input field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
