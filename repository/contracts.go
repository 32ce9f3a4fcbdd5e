// Package repository defines storage-agnostic data access contracts:
// CRUD capability interfaces parameterized by entity, primary key and
// input types, plus the pagination shapes they share. The package holds
// no implementation — backends under repository/ satisfy these
// interfaces, and the suites in repository/contract verify that they do.
package repository

import "context"

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for backends that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// CreateRepository persists new entities built from creation input.
// Create returns the stored entity including any backend-assigned fields.
// It fails with ErrValidation when the input is invalid and with
// ErrCreation when well-formed input cannot be persisted, such as a
// uniqueness violation.
type CreateRepository[C, E any] interface {
	Create(ctx context.Context, data C) (E, error)
}

// ReadRepository exposes lookups over the full entity set.
//
// FindByPrimaryKey fails with ErrNotFound when no entity has the key.
// ExistsByPrimaryKey never fails for a missing key — it reports false —
// and returns ErrAccess only when the storage medium itself fails.
// Count reports the full cardinality of the set, independent of any
// pagination.
//
// FindAll with nil options returns the whole set as a single page
// (TotalPages=1, CurrentPage=1); with options it returns exactly the
// ordered slice [(n-1)*p, n*p) of the full set under the backend's
// documented stable order, with TotalItems holding the unfiltered count.
type ReadRepository[K comparable, E any] interface {
	FindByPrimaryKey(ctx context.Context, key K) (E, error)
	ExistsByPrimaryKey(ctx context.Context, key K) (bool, error)
	FindAll(ctx context.Context, opts *PaginationOptions) (PaginatedContent[E], error)
	Count(ctx context.Context) (int64, error)
}

// UpdateRepository applies update input to an existing entity.
// Update fails with ErrNotFound when the key is absent and with
// ErrValidation when the data is invalid for the entity kind. The
// returned entity must reflect the just-applied change.
type UpdateRepository[U any, K comparable, E any] interface {
	Update(ctx context.Context, data U, key K) (E, error)
}

// DeleteRepository removes entities by key.
// DeleteByPrimaryKey fails with ErrNotFound when the key is absent, so a
// second delete of the same key fails too. Backends that want idempotent
// delete must document it as an extension; none of the shipped ones do.
type DeleteRepository[K comparable] interface {
	DeleteByPrimaryKey(ctx context.Context, key K) error
}

// CRUDRepository is the pure union of the four capability interfaces.
// A type satisfies it only by satisfying all four independently; the
// union adds no contract of its own.
type CRUDRepository[C, U any, K comparable, E any] interface {
	CreateRepository[C, E]
	ReadRepository[K, E]
	UpdateRepository[U, K, E]
	DeleteRepository[K]
}
