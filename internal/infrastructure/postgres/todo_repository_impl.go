package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

const todoColumns = `id, user_id, title, description, due_date, completed, created_at, updated_at`

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func scanTodo(row pgx.Row) (*entity.Todo, error) {
	t := &entity.Todo{}
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func collectTodos(rows pgx.Rows) ([]entity.Todo, error) {
	defer rows.Close()
	var out []entity.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, mapError(rows.Err())
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	if !validID(t.UserID) {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO todos (user_id, title, description, due_date, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Title, t.Description, t.DueDate, t.Completed)

	return mapError(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Todo, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	return collectTodos(rows)
}

func (r *TodoRepository) Get(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, repository.ErrNotFound
	}
	return scanTodo(r.pool.QueryRow(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1 AND user_id = $2
	`, id, ownerID))
}

// Update applies the non-nil fields of changes in a single statement.
func (r *TodoRepository) Update(ctx context.Context, id, ownerID string, changes entity.TodoChanges) (*entity.Todo, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, repository.ErrNotFound
	}
	return scanTodo(r.pool.QueryRow(ctx, `
		UPDATE todos SET
			title       = COALESCE($3::text, title),
			description = COALESCE($4::text, description),
			due_date    = CASE WHEN $7::boolean THEN NULL ELSE COALESCE($5::timestamptz, due_date) END,
			completed   = COALESCE($6::boolean, completed),
			updated_at  = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+todoColumns,
		id, ownerID, changes.Title, changes.Description, changes.DueDate, changes.Completed, changes.ClearDueDate))
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, repository.ErrNotFound
	}
	return scanTodo(r.pool.QueryRow(ctx, `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
		RETURNING `+todoColumns, id, ownerID))
}

func (r *TodoRepository) ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Todo, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1 AND due_date >= $2 AND due_date < $3
		ORDER BY due_date, created_at
	`, ownerID, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	return collectTodos(rows)
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
