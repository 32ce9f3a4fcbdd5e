package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/crudkit/repository"
	"github.com/maxviazov/crudkit/repository/contract"
	"github.com/maxviazov/crudkit/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID        uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
}

type noteCreate struct {
	Title string `validate:"required,min=1,max=120"`
	Body  string `validate:"max=4096"`
}

type noteUpdate struct {
	Title *string `validate:"omitempty,min=1,max=120"`
	Body  *string `validate:"omitempty,max=4096"`
}

func newNoteStore(t *testing.T) *memory.Store[noteCreate, noteUpdate, uuid.UUID, note] {
	t.Helper()
	s, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{
		NewEntity: func(data noteCreate) (note, error) {
			return note{ID: uuid.New(), Title: data.Title, Body: data.Body, CreatedAt: time.Now().UTC()}, nil
		},
		ApplyUpdate: func(e note, data noteUpdate) (note, error) {
			if data.Title != nil {
				e.Title = *data.Title
			}
			if data.Body != nil {
				e.Body = *data.Body
			}
			return e, nil
		},
		PrimaryKey:     func(e note) uuid.UUID { return e.ID },
		ValidateCreate: memory.Validated[noteCreate](),
		ValidateUpdate: memory.Validated[noteUpdate](),
	})
	require.NoError(t, err)
	return s
}

func TestStoreContract(t *testing.T) {
	contract.RunCRUDRepositoryContract(t, func(t *testing.T) (contract.Harness[noteCreate, noteUpdate, uuid.UUID, note], func()) {
		s := newNoteStore(t)
		h := contract.Harness[noteCreate, noteUpdate, uuid.UUID, note]{
			Repo:        s,
			NewCreation: func(i int) noteCreate { return noteCreate{Title: fmt.Sprintf("note-%02d", i)} },
			NewUpdate: func(i int) noteUpdate {
				title := fmt.Sprintf("renamed-%02d", i)
				return noteUpdate{Title: &title}
			},
			Key:       func(e note) uuid.UUID { return e.ID },
			AbsentKey: uuid.Nil,
			Equal: func(a, b note) bool {
				return a.ID == b.ID && a.Title == b.Title && a.Body == b.Body && a.CreatedAt.Equal(b.CreatedAt)
			},
			Applied: func(e note, u noteUpdate) bool { return u.Title != nil && e.Title == *u.Title },
		}
		return h, func() {}
	})
}

func TestNewRequiresHooks(t *testing.T) {
	_, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{})
	assert.Error(t, err)
}

func TestCreateValidation(t *testing.T) {
	s := newNoteStore(t)
	_, err := s.Create(context.Background(), noteCreate{Title: ""})
	assert.ErrorIs(t, err, repository.ErrValidation)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "rejected input must not be stored")
}

func TestUpdateValidation(t *testing.T) {
	s := newNoteStore(t)
	created, err := s.Create(context.Background(), noteCreate{Title: "keep"})
	require.NoError(t, err)

	empty := ""
	_, err = s.Update(context.Background(), noteUpdate{Title: &empty}, created.ID)
	assert.ErrorIs(t, err, repository.ErrValidation)

	got, err := s.FindByPrimaryKey(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestDuplicateKeyIsCreationError(t *testing.T) {
	fixed := uuid.New()
	s, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{
		NewEntity: func(data noteCreate) (note, error) {
			return note{ID: fixed, Title: data.Title}, nil
		},
		ApplyUpdate: func(e note, data noteUpdate) (note, error) { return e, nil },
		PrimaryKey:  func(e note) uuid.UUID { return e.ID },
	})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), noteCreate{Title: "first"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), noteCreate{Title: "second"})
	assert.ErrorIs(t, err, repository.ErrCreation)
}

func TestConfiguredOrder(t *testing.T) {
	s, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{
		NewEntity: func(data noteCreate) (note, error) {
			return note{ID: uuid.New(), Title: data.Title}, nil
		},
		ApplyUpdate: func(e note, data noteUpdate) (note, error) { return e, nil },
		PrimaryKey:  func(e note) uuid.UUID { return e.ID },
		Less:        func(a, b note) bool { return a.Title < b.Title },
	})
	require.NoError(t, err)

	ctx := context.Background()
	for _, title := range []string{"delta", "alpha", "charlie", "bravo"} {
		_, err := s.Create(ctx, noteCreate{Title: title})
		require.NoError(t, err)
	}
	res, err := s.FindAll(ctx, &repository.PaginationOptions{PageNumber: 1, PageSize: 3})
	require.NoError(t, err)
	got := make([]string, 0, len(res.Content))
	for _, n := range res.Content {
		got = append(got, n.Title)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, got)
	assert.Equal(t, int64(4), res.TotalItems)
	assert.Equal(t, 2, res.TotalPages)
}

func TestOrderTiesKeepInsertionOrder(t *testing.T) {
	// A Less comparing only on Body ties every note with the same body, so
	// the insertion sequence must decide — and keep deciding identically on
	// every call.
	s, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{
		NewEntity: func(data noteCreate) (note, error) {
			return note{ID: uuid.New(), Title: data.Title, Body: data.Body}, nil
		},
		ApplyUpdate: func(e note, data noteUpdate) (note, error) { return e, nil },
		PrimaryKey:  func(e note) uuid.UUID { return e.ID },
		Less:        func(a, b note) bool { return a.Body < b.Body },
	})
	require.NoError(t, err)

	ctx := context.Background()
	var earlier, shared []string
	for i := 0; i < 12; i++ {
		title := fmt.Sprintf("note-%02d", i)
		body := "shared"
		if i%3 == 0 {
			body = "earlier"
		}
		_, err := s.Create(ctx, noteCreate{Title: title, Body: body})
		require.NoError(t, err)
		if body == "earlier" {
			earlier = append(earlier, title)
		} else {
			shared = append(shared, title)
		}
	}
	// Ties resolve by insertion order within each body group.
	want := append(earlier, shared...)

	for call := 0; call < 5; call++ {
		res, err := s.FindAll(ctx, nil)
		require.NoError(t, err)
		got := make([]string, 0, len(res.Content))
		for _, n := range res.Content {
			got = append(got, n.Title)
		}
		assert.Equal(t, want, got, "call %d must keep the same order", call)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newNoteStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Create(ctx, noteCreate{Title: "too late"})
	assert.ErrorIs(t, err, context.Canceled)
}
