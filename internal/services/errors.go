package services

import "errors"

// Sentinel errors shared across the water services. Handlers match these with
// errors.Is to pick status codes.
var (
	// ErrInvalidAmount rejects zero, non-finite or otherwise unusable amounts
	// before any store call is made.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnauthenticated means no owning user context was established.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflictRetryExhausted means the aggregate read-modify-write could
	// not commit after bounded retries. The aggregate is never left partially
	// updated; callers may simply retry.
	ErrConflictRetryExhausted = errors.New("conflict retries exhausted")

	// ErrNotFound covers operations on ids that no longer exist. Deletes
	// treat it as a benign no-op, updates as an error.
	ErrNotFound = errors.New("not found")

	// ErrForbidden covers operations on records the caller does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrStoreUnavailable wraps transport or connectivity failures talking to
	// the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
