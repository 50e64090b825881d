package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, repository.ErrDuplicateEmail},
		{"foreign key", &pgconn.PgError{Code: "23503"}, repository.ErrNotFound},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, repository.ErrNotFound},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f2a4c1e-8a9b-4c1d-9e2f-0a1b2c3d4e5f"))
	assert.False(t, validID("123"))
	assert.False(t, validID(""))
}
