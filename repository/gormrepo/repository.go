// Package gormrepo backs the repository contracts with gorm, so the
// contract suites can run against an embedded database without a server.
// The gorm.DB must be opened with TranslateError enabled for duplicate
// keys to surface as repository.ErrCreation.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxviazov/crudkit/repository"
	"gorm.io/gorm"
)

// Config carries the entity hooks and the key column the generic
// repository queries by.
type Config[C, U any, K comparable, E any] struct {
	// KeyColumn is the database column holding the primary key.
	KeyColumn string
	// NewEntity builds a record to insert from creation input.
	NewEntity func(data C) (E, error)
	// ApplyUpdate mutates a loaded record in place.
	ApplyUpdate func(entity *E, data U) error
}

// Repository implements the CRUD contract over a gorm model type E.
// Stable total order: ascending KeyColumn. Concurrency policy is the
// underlying database's; gorm adds no locking here.
type Repository[C, U any, K comparable, E any] struct {
	db  *gorm.DB
	cfg Config[C, U, K, E]
}

func New[C, U any, K comparable, E any](db *gorm.DB, cfg Config[C, U, K, E]) (*Repository[C, U, K, E], error) {
	if db == nil {
		return nil, fmt.Errorf("gormrepo: db is required")
	}
	if cfg.KeyColumn == "" || cfg.NewEntity == nil || cfg.ApplyUpdate == nil {
		return nil, fmt.Errorf("gormrepo: KeyColumn, NewEntity and ApplyUpdate are required")
	}
	return &Repository[C, U, K, E]{db: db, cfg: cfg}, nil
}

func (r *Repository[C, U, K, E]) Create(ctx context.Context, data C) (E, error) {
	var zero E
	e, err := r.cfg.NewEntity(data)
	if err != nil {
		return zero, err
	}
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return zero, mapError(err)
	}
	return e, nil
}

func (r *Repository[C, U, K, E]) FindByPrimaryKey(ctx context.Context, key K) (E, error) {
	var e E
	err := r.db.WithContext(ctx).
		Where(r.cfg.KeyColumn+" = ?", key).
		First(&e).Error
	if err != nil {
		return e, mapError(err)
	}
	return e, nil
}

func (r *Repository[C, U, K, E]) ExistsByPrimaryKey(ctx context.Context, key K) (bool, error) {
	var model E
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model).
		Where(r.cfg.KeyColumn+" = ?", key).
		Count(&n).Error
	if err != nil {
		return false, mapError(err)
	}
	return n > 0, nil
}

// FindAll with nil options returns the whole set as one page. The count
// and the windowed select are separate queries, so totals can drift under
// concurrent writes.
func (r *Repository[C, U, K, E]) FindAll(ctx context.Context, opts *repository.PaginationOptions) (repository.PaginatedContent[E], error) {
	var zero repository.PaginatedContent[E]
	tx := r.db.WithContext(ctx).Order(r.cfg.KeyColumn + " ASC")

	if opts == nil || opts.Normalize().PageSize == 0 {
		var items []E
		if err := tx.Find(&items).Error; err != nil {
			return zero, mapError(err)
		}
		return repository.NewPaginatedContent(items, int64(len(items)), opts), nil
	}

	n := opts.Normalize()
	total, err := r.Count(ctx)
	if err != nil {
		return zero, err
	}
	var items []E
	if err := tx.Limit(n.PageSize).Offset(n.Offset()).Find(&items).Error; err != nil {
		return zero, mapError(err)
	}
	return repository.NewPaginatedContent(items, total, &n), nil
}

func (r *Repository[C, U, K, E]) Count(ctx context.Context) (int64, error) {
	var model E
	var n int64
	if err := r.db.WithContext(ctx).Model(&model).Count(&n).Error; err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *Repository[C, U, K, E]) Update(ctx context.Context, data U, key K) (E, error) {
	var e E
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(r.cfg.KeyColumn+" = ?", key).First(&e).Error; err != nil {
			return err
		}
		if err := r.cfg.ApplyUpdate(&e, data); err != nil {
			return err
		}
		return tx.Save(&e).Error
	})
	if err != nil {
		var zero E
		return zero, mapError(err)
	}
	return e, nil
}

func (r *Repository[C, U, K, E]) DeleteByPrimaryKey(ctx context.Context, key K) error {
	var model E
	res := r.db.WithContext(ctx).
		Where(r.cfg.KeyColumn+" = ?", key).
		Delete(&model)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mapError translates gorm's sentinels to repository kinds; unknown
// failures pass through so callers keep their own markers.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrCreation
	case errors.Is(err, gorm.ErrInvalidTransaction), errors.Is(err, gorm.ErrInvalidDB):
		return repository.ErrAccess
	default:
		return err
	}
}
