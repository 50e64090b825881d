package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

// PostgreSQL error codes
const (
	uniqueViolationCode      = "23505"
	foreignKeyViolationCode  = "23503"
	invalidTextRepresentCode = "22P02"
)

// mapError translates driver errors into repository sentinels, keeping the cause wrapped.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %s", repository.ErrDuplicateEmail, pgErr.ConstraintName)
		case foreignKeyViolationCode, invalidTextRepresentCode:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.Message)
		}
	}
	return err
}

// validID reports whether id can be a primary key. Malformed ids cannot match any row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
