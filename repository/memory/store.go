// Package memory provides a generic in-memory backend for the repository
// contracts. It is the reference implementation the contract suites were
// written against and doubles as a test fake for services built on the
// interfaces.
//
// Concurrency policy: every operation takes the store mutex, so calls are
// serialized and last-write-wins. Stable total order: entities are ordered
// by the configured Less function with ties kept in insertion order,
// falling back to insertion sequence when no Less is set.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/maxviazov/crudkit/repository"
)

// Config carries the entity-specific hooks a generic store cannot infer.
type Config[C, U any, K comparable, E any] struct {
	// NewEntity builds a stored entity from creation input, assigning
	// identity and any server-side fields.
	NewEntity func(data C) (E, error)
	// ApplyUpdate returns the entity with the update input applied.
	ApplyUpdate func(entity E, data U) (E, error)
	// PrimaryKey extracts the key under which an entity is stored.
	PrimaryKey func(entity E) K
	// Less orders entities for FindAll. Nil means insertion order.
	Less func(a, b E) bool
	// ValidateCreate and ValidateUpdate run before the hooks above; a
	// non-nil return aborts the operation. See Validated for a
	// struct-tag-driven implementation.
	ValidateCreate func(data C) error
	ValidateUpdate func(data U) error
}

type entry[E any] struct {
	value E
	seq   uint64
}

// Store is a mutex-guarded map keyed by primary key.
type Store[C, U any, K comparable, E any] struct {
	mu    sync.RWMutex
	cfg   Config[C, U, K, E]
	items map[K]entry[E]
	seq   uint64
}

// New builds an empty store. The three entity hooks are mandatory.
func New[C, U any, K comparable, E any](cfg Config[C, U, K, E]) (*Store[C, U, K, E], error) {
	if cfg.NewEntity == nil || cfg.ApplyUpdate == nil || cfg.PrimaryKey == nil {
		return nil, fmt.Errorf("memory: NewEntity, ApplyUpdate and PrimaryKey hooks are required")
	}
	return &Store[C, U, K, E]{cfg: cfg, items: make(map[K]entry[E])}, nil
}

func (s *Store[C, U, K, E]) Create(ctx context.Context, data C) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.cfg.ValidateCreate != nil {
		if err := s.cfg.ValidateCreate(data); err != nil {
			return zero, err
		}
	}
	e, err := s.cfg.NewEntity(data)
	if err != nil {
		return zero, err
	}
	key := s.cfg.PrimaryKey(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.items[key]; dup {
		return zero, fmt.Errorf("%w: key %v already present", repository.ErrCreation, key)
	}
	s.seq++
	s.items[key] = entry[E]{value: e, seq: s.seq}
	return e, nil
}

func (s *Store[C, U, K, E]) FindByPrimaryKey(ctx context.Context, key K) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[key]
	if !ok {
		return zero, repository.ErrNotFound
	}
	return it.value, nil
}

func (s *Store[C, U, K, E]) ExistsByPrimaryKey(ctx context.Context, key K) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok, nil
}

func (s *Store[C, U, K, E]) FindAll(ctx context.Context, opts *repository.PaginationOptions) (repository.PaginatedContent[E], error) {
	if err := ctx.Err(); err != nil {
		return repository.PaginatedContent[E]{}, err
	}
	all := s.ordered()
	total := int64(len(all))
	if opts == nil {
		return repository.NewPaginatedContent(all, total, nil), nil
	}
	n := opts.Normalize()
	if n.PageSize == 0 {
		return repository.NewPaginatedContent(all, total, &n), nil
	}
	lo := n.Offset()
	hi := lo + n.PageSize
	if lo > len(all) {
		lo = len(all)
	}
	if hi > len(all) {
		hi = len(all)
	}
	return repository.NewPaginatedContent(all[lo:hi], total, &n), nil
}

func (s *Store[C, U, K, E]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *Store[C, U, K, E]) Update(ctx context.Context, data U, key K) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.cfg.ValidateUpdate != nil {
		if err := s.cfg.ValidateUpdate(data); err != nil {
			return zero, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		return zero, repository.ErrNotFound
	}
	updated, err := s.cfg.ApplyUpdate(it.value, data)
	if err != nil {
		return zero, err
	}
	if s.cfg.PrimaryKey(updated) != key {
		return zero, fmt.Errorf("%w: update must not change the primary key", repository.ErrValidation)
	}
	it.value = updated
	s.items[key] = it
	return updated, nil
}

func (s *Store[C, U, K, E]) DeleteByPrimaryKey(ctx context.Context, key K) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, key)
	return nil
}

// ordered snapshots the entities under the configured total order.
func (s *Store[C, U, K, E]) ordered() []E {
	s.mu.RLock()
	entries := make([]entry[E], 0, len(s.items))
	for _, it := range s.items {
		entries = append(entries, it)
	}
	s.mu.RUnlock()

	// Map iteration order is random, so sort by insertion sequence first;
	// the stable sort below then keeps that order for entities Less ties.
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	if s.cfg.Less != nil {
		sort.SliceStable(entries, func(i, j int) bool {
			return s.cfg.Less(entries[i].value, entries[j].value)
		})
	}
	out := make([]E, len(entries))
	for i, it := range entries {
		out[i] = it.value
	}
	return out
}

var _ repository.CRUDRepository[any, any, string, any] = (*Store[any, any, string, any])(nil)
