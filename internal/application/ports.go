package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
)

// PasswordHasher hashes and checks passwords. helpers.BcryptHasher implements it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer signs bearer tokens. helpers.JWTManager implements it.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, time.Time, error)
}

// Notifier delivers one email. It returns mailer.ErrNotConfigured when no transport is set up.
type Notifier interface {
	Dispatch(ctx context.Context, job mailer.EmailJob) error
}

// TodoIndexer mirrors todos into a search index. Optional.
type TodoIndexer interface {
	Index(ctx context.Context, t entity.Todo) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, q string, size int) ([]entity.Todo, error)
}
