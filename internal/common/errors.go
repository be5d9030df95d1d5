// Package common contains shared constants and sentinel errors used across
// carelink components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session / auth flow control.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token")

	// Validation.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
