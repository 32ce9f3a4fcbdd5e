// Package contract provides reusable behavioral suites every backend of
// the repository interfaces is expected to pass. Suites stay on the plain
// testing package so external implementations can import them without
// inheriting assertion libraries.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/crudkit/repository"
)

// Harness bundles a repository under test with the entity-specific
// knowledge the generic suite cannot derive on its own.
type Harness[C, U any, K comparable, E any] struct {
	Repo repository.CRUDRepository[C, U, K, E]
	// NewCreation returns a distinct valid creation input per index.
	NewCreation func(i int) C
	// NewUpdate returns a valid update input per index.
	NewUpdate func(i int) U
	// Key extracts the primary key from a stored entity.
	Key func(e E) K
	// AbsentKey is a key guaranteed to match no entity in a fresh backend.
	AbsentKey K
	// Equal reports whether two entities are the same for round-trip purposes.
	Equal func(a, b E) bool
	// Applied reports whether an entity reflects a previously applied update.
	Applied func(e E, u U) bool
}

// Factory builds a fresh, empty backend plus its cleanup. Each subtest
// gets its own so counts and pages start from a known state.
type Factory[C, U any, K comparable, E any] func(t *testing.T) (Harness[C, U, K, E], func())

type TxFactory func(t *testing.T) (tx repository.TxManager, exists func(ctx context.Context) (bool, error), create func(ctx context.Context) error, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunCRUDRepositoryContract[C, U any, K comparable, E any](t *testing.T, makeRepo Factory[C, U, K, E]) {
	t.Helper()

	t.Run("create_then_find_round_trip", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := h.Repo.Create(ctx, h.NewCreation(0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := h.Repo.FindByPrimaryKey(ctx, h.Key(created))
		if err != nil {
			t.Fatalf("find after create: %v", err)
		}
		if !h.Equal(created, got) {
			t.Fatalf("round trip mismatch: created=%+v got=%+v", created, got)
		}
	})

	t.Run("missing_key_semantics", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := h.Repo.FindByPrimaryKey(ctx, h.AbsentKey); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		ok, err := h.Repo.ExistsByPrimaryKey(ctx, h.AbsentKey)
		if err != nil {
			t.Fatalf("exists must not fail for a missing key: %v", err)
		}
		if ok {
			t.Fatal("exists reported true for a missing key")
		}
	})

	t.Run("exists_after_create", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := h.Repo.Create(ctx, h.NewCreation(0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ok, err := h.Repo.ExistsByPrimaryKey(ctx, h.Key(created))
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if !ok {
			t.Fatal("exists reported false for a stored entity")
		}
	})

	t.Run("count_tracks_cardinality", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		n, err := h.Repo.Count(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 0 {
			t.Fatalf("fresh backend must be empty, count=%d", n)
		}
		for i := 0; i < 4; i++ {
			if _, err := h.Repo.Create(ctx, h.NewCreation(i)); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		n, err = h.Repo.Count(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 4 {
			t.Fatalf("count=%d after 4 creates", n)
		}
	})

	t.Run("page_windows", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			if _, err := h.Repo.Create(ctx, h.NewCreation(i)); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		// 5 entities, pageSize=2: pages of length 2, 2, 1; beyond that, empty.
		wantLens := map[int]int{1: 2, 2: 2, 3: 1, 4: 0}
		for page, wantLen := range wantLens {
			res, err := h.Repo.FindAll(ctx, &repository.PaginationOptions{PageNumber: page, PageSize: 2})
			if err != nil {
				t.Fatalf("page %d: %v", page, err)
			}
			if len(res.Content) != wantLen {
				t.Fatalf("page %d: len=%d want=%d", page, len(res.Content), wantLen)
			}
			if res.TotalItems != 5 {
				t.Fatalf("page %d: totalItems=%d want=5", page, res.TotalItems)
			}
			if res.TotalPages != 3 {
				t.Fatalf("page %d: totalPages=%d want=3", page, res.TotalPages)
			}
			if res.CurrentPage != page {
				t.Fatalf("page %d: currentPage=%d", page, res.CurrentPage)
			}
		}
	})

	t.Run("pages_tile_the_ordered_set", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := h.Repo.Create(ctx, h.NewCreation(i)); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		all, err := h.Repo.FindAll(ctx, nil)
		if err != nil {
			t.Fatalf("findAll: %v", err)
		}
		if len(all.Content) != 7 || all.TotalPages != 1 || all.CurrentPage != 1 {
			t.Fatalf("nil options must return one page with everything: %+v", all)
		}
		var tiled []K
		for page := 1; page <= 3; page++ {
			res, err := h.Repo.FindAll(ctx, &repository.PaginationOptions{PageNumber: page, PageSize: 3})
			if err != nil {
				t.Fatalf("page %d: %v", page, err)
			}
			for _, e := range res.Content {
				tiled = append(tiled, h.Key(e))
			}
		}
		if len(tiled) != 7 {
			t.Fatalf("pages must tile the set exactly, got %d keys", len(tiled))
		}
		for i, e := range all.Content {
			if h.Key(e) != tiled[i] {
				t.Fatalf("page order diverges from full order at %d", i)
			}
		}
	})

	t.Run("unset_size_is_single_page", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			if _, err := h.Repo.Create(ctx, h.NewCreation(i)); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		// Page number without a size: one page holds everything, whatever
		// page was asked for.
		res, err := h.Repo.FindAll(ctx, &repository.PaginationOptions{PageNumber: 3})
		if err != nil {
			t.Fatalf("findAll: %v", err)
		}
		if len(res.Content) != 3 || res.TotalItems != 3 {
			t.Fatalf("unset size must return the whole set: %+v", res)
		}
		if res.TotalPages != 1 || res.CurrentPage != 1 {
			t.Fatalf("unset size means a single page: totalPages=%d currentPage=%d", res.TotalPages, res.CurrentPage)
		}
	})

	t.Run("order_is_stable_across_calls", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 6; i++ {
			if _, err := h.Repo.Create(ctx, h.NewCreation(i)); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		opts := &repository.PaginationOptions{PageNumber: 2, PageSize: 2}
		first, err := h.Repo.FindAll(ctx, opts)
		if err != nil {
			t.Fatalf("first call: %v", err)
		}
		second, err := h.Repo.FindAll(ctx, opts)
		if err != nil {
			t.Fatalf("second call: %v", err)
		}
		if len(first.Content) != len(second.Content) {
			t.Fatalf("page length changed between calls: %d vs %d", len(first.Content), len(second.Content))
		}
		for i := range first.Content {
			if h.Key(first.Content[i]) != h.Key(second.Content[i]) {
				t.Fatalf("order changed between calls at index %d", i)
			}
		}
	})

	t.Run("update_read_after_write", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := h.Repo.Create(ctx, h.NewCreation(0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		upd := h.NewUpdate(1)
		updated, err := h.Repo.Update(ctx, upd, h.Key(created))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !h.Applied(updated, upd) {
			t.Fatalf("update result does not reflect the change: %+v", updated)
		}
		got, err := h.Repo.FindByPrimaryKey(ctx, h.Key(created))
		if err != nil {
			t.Fatalf("find after update: %v", err)
		}
		if !h.Applied(got, upd) {
			t.Fatalf("stored entity does not reflect the change: %+v", got)
		}
	})

	t.Run("update_missing_not_found", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		if _, err := h.Repo.Update(context.Background(), h.NewUpdate(0), h.AbsentKey); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_is_strict", func(t *testing.T) {
		h, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := h.Repo.Create(ctx, h.NewCreation(0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		key := h.Key(created)
		if err := h.Repo.DeleteByPrimaryKey(ctx, key); err != nil {
			t.Fatalf("delete: %v", err)
		}
		ok, err := h.Repo.ExistsByPrimaryKey(ctx, key)
		if err != nil {
			t.Fatalf("exists after delete: %v", err)
		}
		if ok {
			t.Fatal("entity still exists after delete")
		}
		if err := h.Repo.DeleteByPrimaryKey(ctx, key); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second delete must fail with ErrNotFound, got %v", err)
		}
		if err := h.Repo.DeleteByPrimaryKey(ctx, h.AbsentKey); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("deleting an absent key must fail with ErrNotFound, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, exists, create, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := tx.WithinTx(ctx, func(ctx context.Context) error {
			return create(ctx)
		}); err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		ok, err := exists(ctx)
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if !ok {
			t.Fatal("committed entity not visible")
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, exists, create, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		boom := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := create(ctx); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected marker error, got %v", err)
		}
		ok, err := exists(ctx)
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if ok {
			t.Fatal("rolled-back entity is visible")
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
