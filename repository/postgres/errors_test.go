package postgres_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/crudkit/repository"
	pg "github.com/maxviazov/crudkit/repository/postgres"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows becomes not found", pgx.ErrNoRows, repository.ErrNotFound},
		{"unique violation becomes creation error", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrCreation},
		{"fk violation becomes creation error", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrCreation},
		{"check violation becomes validation error", &pgconn.PgError{Code: pgerrcode.CheckViolation}, repository.ErrValidation},
		{"not null violation becomes validation error", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, repository.ErrValidation},
		{"connection failure becomes access error", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, repository.ErrAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pg.MapError(tt.in))
		})
	}

	t.Run("unknown errors pass through", func(t *testing.T) {
		marker := errors.New("boom")
		assert.Same(t, marker, pg.MapError(marker))
	})

	t.Run("unmapped pg codes pass through", func(t *testing.T) {
		in := &pgconn.PgError{Code: pgerrcode.DivisionByZero}
		assert.Equal(t, error(in), pg.MapError(in))
	})
}
