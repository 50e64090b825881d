// Package memory keeps users and todos in process memory. It backs
// DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

// Store holds both collections behind one lock so a todo's owner check sees
// the same snapshot as its insert.
type Store struct {
	mu    sync.RWMutex
	users map[string]entity.User
	todos map[string]entity.Todo
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]entity.User),
		todos: make(map[string]entity.Todo),
		now:   time.Now,
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Todos() *TodoRepository { return &TodoRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type TodoRepository struct{ s *Store }

func (r *TodoRepository) Create(_ context.Context, t *entity.Todo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.UserID]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.todos[t.ID] = copyTodo(*t)
	return nil
}

func (r *TodoRepository) ListByOwner(_ context.Context, ownerID string) ([]entity.Todo, error) {
	return r.filter(func(t entity.Todo) bool { return t.UserID == ownerID }), nil
}

func (r *TodoRepository) Get(_ context.Context, id, ownerID string) (*entity.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.todos[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	t = copyTodo(t)
	return &t, nil
}

func (r *TodoRepository) Update(_ context.Context, id, ownerID string, changes entity.TodoChanges) (*entity.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.todos[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	changes.Apply(&t)
	t.UpdatedAt = r.s.now()
	r.s.todos[id] = copyTodo(t)
	return &t, nil
}

func (r *TodoRepository) Delete(_ context.Context, id, ownerID string) (*entity.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.todos[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	delete(r.s.todos, id)
	return &t, nil
}

func (r *TodoRepository) ListDueBetween(_ context.Context, ownerID string, from, to time.Time) ([]entity.Todo, error) {
	return r.filter(func(t entity.Todo) bool {
		return t.UserID == ownerID && t.DueDate != nil && !t.DueDate.Before(from) && t.DueDate.Before(to)
	}), nil
}

func (r *TodoRepository) filter(keep func(entity.Todo) bool) []entity.Todo {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Todo{}
	for _, t := range r.s.todos {
		if keep(t) {
			out = append(out, copyTodo(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyTodo(t entity.Todo) entity.Todo {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.TodoRepository = (*TodoRepository)(nil)
)
