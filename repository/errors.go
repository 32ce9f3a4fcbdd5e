package repository

import "errors"

// Domain-level error kinds I expect backends to bubble up instead of
// driver-specific codes. Callers match them with errors.Is; wrapping with
// extra detail is fine as long as the sentinel stays in the chain.
var (
	// ErrNotFound: the requested primary key has no corresponding entity.
	ErrNotFound = errors.New("entity not found")
	// ErrValidation: creation or update input failed the backend's validity rules.
	ErrValidation = errors.New("invalid input")
	// ErrAccess: the storage medium could not be reached or the operation
	// could not complete for infrastructural reasons.
	ErrAccess = errors.New("storage access failed")
	// ErrCreation: well-formed creation input that cannot be persisted,
	// e.g. a uniqueness violation.
	ErrCreation = errors.New("entity cannot be created")
)
