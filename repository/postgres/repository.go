package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/crudkit/repository"
)

// Statements carries the SQL a Repository runs per operation. Insert and
// Update must RETURN the full entity row; SelectAll and SelectPage must
// share one deterministic ORDER BY — that order is the backend's stable
// total order, and keeping it deterministic is on the statement author.
type Statements struct {
	// Insert persists one row; placeholders are fed by the InsertArgs hook.
	Insert string
	// SelectByKey selects one row by primary key ($1).
	SelectByKey string
	// Exists returns one boolean for a primary key ($1).
	Exists string
	// SelectAll selects the full ordered set.
	SelectAll string
	// SelectPage selects one window of the same order, LIMIT $1 OFFSET $2.
	SelectPage string
	// Count returns the full cardinality.
	Count string
	// Update mutates one row by key; placeholders fed by UpdateArgs.
	Update string
	// Delete removes one row by primary key ($1).
	Delete string
}

func (s Statements) validate() error {
	missing := ""
	switch {
	case s.Insert == "":
		missing = "Insert"
	case s.SelectByKey == "":
		missing = "SelectByKey"
	case s.Exists == "":
		missing = "Exists"
	case s.SelectAll == "":
		missing = "SelectAll"
	case s.SelectPage == "":
		missing = "SelectPage"
	case s.Count == "":
		missing = "Count"
	case s.Update == "":
		missing = "Update"
	case s.Delete == "":
		missing = "Delete"
	}
	if missing != "" {
		return fmt.Errorf("postgres: statement %s is required", missing)
	}
	return nil
}

// Repository implements the CRUD contract for one entity type. Rows are
// scanned into E by column name, so the entity's db struct tags must match
// the statement's returned columns.
//
// Concurrency policy is the database's: operations run with the pool's
// default isolation, and writers to the same key race under
// read-committed rules unless callers serialize through a TxManager.
type Repository[C, U any, K comparable, E any] struct {
	pool       *pgxpool.Pool
	stmts      Statements
	insertArgs func(data C) []any
	updateArgs func(data U, key K) []any
}

// New builds a repository over an existing pool.
func New[C, U any, K comparable, E any](
	pool *pgxpool.Pool,
	stmts Statements,
	insertArgs func(data C) []any,
	updateArgs func(data U, key K) []any,
) (*Repository[C, U, K, E], error) {
	if err := ensurePool(pool); err != nil {
		return nil, err
	}
	if err := stmts.validate(); err != nil {
		return nil, err
	}
	if insertArgs == nil || updateArgs == nil {
		return nil, fmt.Errorf("postgres: insertArgs and updateArgs hooks are required")
	}
	return &Repository[C, U, K, E]{pool: pool, stmts: stmts, insertArgs: insertArgs, updateArgs: updateArgs}, nil
}

func (r *Repository[C, U, K, E]) Create(ctx context.Context, data C) (E, error) {
	var zero E
	rows, err := exec(ctx, r.pool).Query(ctx, r.stmts.Insert, r.insertArgs(data)...)
	if err != nil {
		return zero, MapError(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[E])
	if err != nil {
		return zero, MapError(err)
	}
	return out, nil
}

func (r *Repository[C, U, K, E]) FindByPrimaryKey(ctx context.Context, key K) (E, error) {
	var zero E
	rows, err := exec(ctx, r.pool).Query(ctx, r.stmts.SelectByKey, key)
	if err != nil {
		return zero, MapError(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[E])
	if err != nil {
		return zero, MapError(err)
	}
	return out, nil
}

func (r *Repository[C, U, K, E]) ExistsByPrimaryKey(ctx context.Context, key K) (bool, error) {
	var exists bool
	if err := exec(ctx, r.pool).QueryRow(ctx, r.stmts.Exists, key).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// FindAll with nil options returns the whole set as one page. With options
// it issues a count plus a windowed select; the two queries are not taken
// in one snapshot, so totals can drift under concurrent writes.
func (r *Repository[C, U, K, E]) FindAll(ctx context.Context, opts *repository.PaginationOptions) (repository.PaginatedContent[E], error) {
	var zero repository.PaginatedContent[E]
	q := exec(ctx, r.pool)

	if opts == nil || opts.Normalize().PageSize == 0 {
		rows, err := q.Query(ctx, r.stmts.SelectAll)
		if err != nil {
			return zero, MapError(err)
		}
		items, err := pgx.CollectRows(rows, pgx.RowToStructByName[E])
		if err != nil {
			return zero, MapError(err)
		}
		return repository.NewPaginatedContent(items, int64(len(items)), opts), nil
	}

	n := opts.Normalize()
	total, err := r.Count(ctx)
	if err != nil {
		return zero, err
	}
	rows, err := q.Query(ctx, r.stmts.SelectPage, n.PageSize, n.Offset())
	if err != nil {
		return zero, MapError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[E])
	if err != nil {
		return zero, MapError(err)
	}
	return repository.NewPaginatedContent(items, total, &n), nil
}

func (r *Repository[C, U, K, E]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := exec(ctx, r.pool).QueryRow(ctx, r.stmts.Count).Scan(&total); err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

func (r *Repository[C, U, K, E]) Update(ctx context.Context, data U, key K) (E, error) {
	var zero E
	rows, err := exec(ctx, r.pool).Query(ctx, r.stmts.Update, r.updateArgs(data, key)...)
	if err != nil {
		return zero, MapError(err)
	}
	// RETURNING yields no rows when the key matched nothing.
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[E])
	if err != nil {
		return zero, MapError(err)
	}
	return out, nil
}

func (r *Repository[C, U, K, E]) DeleteByPrimaryKey(ctx context.Context, key K) error {
	tag, err := exec(ctx, r.pool).Exec(ctx, r.stmts.Delete, key)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
