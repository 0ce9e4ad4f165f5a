package otp

import "errors"

var (
	// ErrNotFound is returned by a Store when no record exists for a session.
	ErrNotFound = errors.New("otp record not found")

	// ErrInvalidRecord is returned when a record lacks a session, a code or a validity window.
	ErrInvalidRecord = errors.New("invalid otp record")

	// ErrStore wraps backend failures of a Store implementation.
	ErrStore = errors.New("otp store operation failed")
)
