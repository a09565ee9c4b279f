package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Versioning errors
	ErrContentNotFound  = errors.New("content not found")
	ErrVersionNotFound  = errors.New("version not found")
	ErrConflictNotFound = errors.New("conflict not found")

	// Workflow errors
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrPermissionDenied  = errors.New("permission denied")

	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidInput    = errors.New("invalid input")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Storage errors
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps a driver/transaction error so callers can match
// it with errors.Is(err, ErrStorage) while keeping the cause in the chain.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
