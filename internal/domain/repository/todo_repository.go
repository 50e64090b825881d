package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

// TodoRepository is scoped by owner on every read and write of a single todo.
// A todo that exists but belongs to someone else is reported as ErrNotFound.
type TodoRepository interface {
	// Create stores t and fills ID and timestamps. An unknown owner yields ErrNotFound.
	Create(ctx context.Context, t *entity.Todo) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Todo, error)
	Get(ctx context.Context, id, ownerID string) (*entity.Todo, error)
	Update(ctx context.Context, id, ownerID string, changes entity.TodoChanges) (*entity.Todo, error)
	Delete(ctx context.Context, id, ownerID string) (*entity.Todo, error)
	// ListDueBetween returns the owner's todos with from <= dueDate < to.
	ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Todo, error)
}
