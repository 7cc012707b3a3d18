// Package common defines shared constants and sentinel errors used across
// LoginKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Cipher errors.
	ErrDecryptionFailed = errors.New("wrong secret or corrupted blob")
	ErrNoMasterSecret   = errors.New("no master secret configured")

	// Session token errors (invalid, malformed or expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Host protocol errors.
	ErrorBadRequest      = errors.New("bad request")
	ErrorMessageTooLarge = errors.New("message too large")
)
