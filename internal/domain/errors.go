package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced player id does not exist in the pool.
	ErrNotFound = errors.New("player not found")

	// ErrStorageUnavailable means a backing store could not be reached. The
	// storage backend recovers from it by routing to the fallback store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStoreExhausted means both the primary and the fallback store failed.
	// Fatal to the current call.
	ErrStoreExhausted = errors.New("primary and fallback stores both failed")
)

// ValidationError reports a single malformed ingest record. Batch ingestion
// collects these per record instead of aborting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
