package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create stores u and fills ID and timestamps. A taken email yields ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns every user. Used by the reminder job.
	List(ctx context.Context) ([]entity.User, error)
}
