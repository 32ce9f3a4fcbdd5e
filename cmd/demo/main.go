// Command demo wires the kit end to end: config, logger, and a
// memory-backed CRUDRepository for a uuid-keyed note entity, driven
// through one create/read/update/delete cycle.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/crudkit/internal/config"
	"github.com/maxviazov/crudkit/internal/logger"
	"github.com/maxviazov/crudkit/repository"
	"github.com/maxviazov/crudkit/repository/memory"
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

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	notes, err := memory.New(memory.Config[noteCreate, noteUpdate, uuid.UUID, note]{
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
	if err != nil {
		appLogger.Fatal().Err(err).Msg("store initialization failed")
	}

	ctx := context.Background()
	titles := []string{"groceries", "standup notes", "reading list", "release checklist", "ideas"}
	for _, title := range titles {
		created, err := notes.Create(ctx, noteCreate{Title: title})
		if err != nil {
			appLogger.Fatal().Err(err).Str("title", title).Msg("create failed")
		}
		appLogger.Info().Str("id", created.ID.String()).Str("title", created.Title).Msg("note created")
	}

	pageSize := cfg.Demo.PageSize
	if pageSize <= 0 {
		pageSize = 2
	}
	page, err := notes.FindAll(ctx, &repository.PaginationOptions{PageNumber: 2, PageSize: pageSize})
	if err != nil {
		appLogger.Fatal().Err(err).Msg("list failed")
	}
	appLogger.Info().
		Int64("totalItems", page.TotalItems).
		Int("totalPages", page.TotalPages).
		Int("currentPage", page.CurrentPage).
		Int("pageLen", len(page.Content)).
		Msg("listed second page")

	// A large configured page size can leave page 2 empty.
	if len(page.Content) == 0 {
		appLogger.Info().Msg("second page is empty; nothing left to demo")
		return
	}

	first := page.Content[0]
	newTitle := first.Title + " (reviewed)"
	updated, err := notes.Update(ctx, noteUpdate{Title: &newTitle}, first.ID)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("update failed")
	}
	appLogger.Info().Str("id", updated.ID.String()).Str("title", updated.Title).Msg("note updated")

	if err := notes.DeleteByPrimaryKey(ctx, updated.ID); err != nil {
		appLogger.Fatal().Err(err).Msg("delete failed")
	}
	remaining, err := notes.Count(ctx)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("count failed")
	}
	appLogger.Info().Int64("remaining", remaining).Msg("note deleted")
}
