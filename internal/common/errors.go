// Package common defines shared constants and sentinel errors used across
// Lumeshot components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Batch-shape errors. These reject the whole request before any
	// storage or database side effects.
	ErrValidation    = errors.New("validation error")
	ErrBatchTooLarge = errors.New("too many files in batch")

	// Per-file validation errors. A file failing one of these lands in the
	// failed partition of the manifest; its siblings are unaffected.
	ErrMissingField    = errors.New("file name and content type are required")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")

	// Storage control-plane errors.
	ErrCredentials  = errors.New("storage credentials configuration error")
	ErrIssuance     = errors.New("upload credential issuance failed")
	ErrVerification = errors.New("object verification failed")

	// ErrIdentifier means a completion payload carried a category or
	// project id that does not parse. Batch-fatal: it indicates a corrupt
	// client payload, not a transient condition.
	ErrIdentifier = errors.New("malformed identifier")

	// Session lifecycle errors.
	ErrSessionExpired = errors.New("upload session expired")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
