package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer/templates"
	"github.com/oksasatya/go-ddd-todo/pkg/validation"
)

const (
	defaultSendTimeout = 10 * time.Second
	searchLimit        = 20
)

// TodoService holds the owner-scoped todo use cases. Every lookup is keyed by
// (id, ownerID), so a todo owned by someone else reads as not found.
type TodoService struct {
	Todos    repo.TodoRepository
	Users    repo.UserRepository
	Notifier Notifier
	Index    TodoIndexer
	Logger   *logrus.Logger

	AppName     string
	SendTimeout time.Duration
	Location    *time.Location
	Now         func() time.Time
}

func NewTodoService(todos repo.TodoRepository, users repo.UserRepository, notifier Notifier, logger *logrus.Logger) *TodoService {
	return &TodoService{
		Todos:       todos,
		Users:       users,
		Notifier:    notifier,
		Logger:      logger,
		SendTimeout: defaultSendTimeout,
		Location:    time.Local,
		Now:         time.Now,
	}
}

type CreateTodoInput struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	DueDate     string `json:"dueDate"`
}

type UpdateTodoInput struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	DueDate     *string `json:"dueDate"` // "" clears it
	Completed   *bool   `json:"completed"`
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]entity.Todo, error) {
	todos, err := s.Todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, InternalError("Failed to fetch todos", err)
	}
	if len(todos) == 0 {
		return nil, NotFoundError("No todos found for this user")
	}
	return todos, nil
}

func (s *TodoService) Get(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	t, err := s.Todos.Get(ctx, id, ownerID)
	if err != nil {
		return nil, s.todoError(err, "Failed to fetch todo")
	}
	return t, nil
}

// Add stores a new todo and notifies its owner. The todo stays persisted
// when the notification cannot be sent; the caller still gets a 500.
func (s *TodoService) Add(ctx context.Context, ownerID string, in CreateTodoInput) (*entity.Todo, error) {
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError("Validation error", validation.ToDetails(err))
	}
	due, err := s.parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	t := &entity.Todo{
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     due,
	}
	if err := s.Todos.Create(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("Failed to create todo", err)
	}
	s.indexTodo(ctx, *t)

	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("Failed to load user", err)
	}

	data := templates.NewTodoEmailData(templates.TodoCreated, owner.Name, owner.Email, t.ID, t.Title,
		templates.WithDescription(t.Description),
		templates.WithDueDate(inLocation(t.DueDate, s.Location)),
		templates.WithAppName(s.AppName),
	)
	if err := s.notify(ctx, mailer.EmailJob{To: owner.Email, Template: templates.TodoCreated, Data: templates.ToMap(data)}); err != nil {
		notificationsFailed.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"todo_id": t.ID, "user_id": ownerID}).
				Warn("todo saved but creation notification failed")
		}
		if errors.Is(err, mailer.ErrNotConfigured) {
			return nil, InternalError("Email configuration is not set", err)
		}
		return nil, InternalError("Failed to send email notification", err)
	}
	notificationsSent.Add(1)
	return t, nil
}

// Update merges in into the todo. Fields left out of the payload keep their value.
func (s *TodoService) Update(ctx context.Context, id, ownerID string, in UpdateTodoInput) (*entity.Todo, error) {
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError("Validation error", validation.ToDetails(err))
	}
	changes := entity.TodoChanges{Description: in.Description, Completed: in.Completed}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		changes.Title = &title
	}
	if in.DueDate != nil {
		due, err := s.parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		changes.DueDate = due
		changes.ClearDueDate = due == nil
	}
	if changes.Empty() {
		return s.Get(ctx, id, ownerID)
	}
	return s.apply(ctx, id, ownerID, changes)
}

// Delete removes the todo and returns what was removed.
func (s *TodoService) Delete(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	t, err := s.Todos.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, s.todoError(err, "Failed to delete todo")
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, t.ID); err != nil {
			s.warn(err, "remove todo from search index failed", t.ID)
		}
	}
	return t, nil
}

func (s *TodoService) Mark(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	done := true
	return s.apply(ctx, id, ownerID, entity.TodoChanges{Completed: &done})
}

func (s *TodoService) Unmark(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	done := false
	return s.apply(ctx, id, ownerID, entity.TodoChanges{Completed: &done})
}

// DueToday lists the owner's todos due on the current local calendar day.
// No match is an empty slice, not an error.
func (s *TodoService) DueToday(ctx context.Context, ownerID string) ([]entity.Todo, error) {
	from, to := helpers.DayBounds(s.now(), s.Location)
	todos, err := s.Todos.ListDueBetween(ctx, ownerID, from, to)
	if err != nil {
		return nil, InternalError("Failed to fetch todos due today", err)
	}
	if todos == nil {
		todos = []entity.Todo{}
	}
	return todos, nil
}

// Search runs a full-text query over the owner's todos. Without a search
// index it returns an empty list.
func (s *TodoService) Search(ctx context.Context, ownerID, q string) ([]entity.Todo, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ValidationError("Validation error", map[string]string{"q": "is required"})
	}
	if s.Index == nil {
		return []entity.Todo{}, nil
	}
	todos, err := s.Index.Search(ctx, ownerID, q, searchLimit)
	if err != nil {
		return nil, InternalError("Search failed", err)
	}
	if todos == nil {
		todos = []entity.Todo{}
	}
	return todos, nil
}

func (s *TodoService) apply(ctx context.Context, id, ownerID string, changes entity.TodoChanges) (*entity.Todo, error) {
	t, err := s.Todos.Update(ctx, id, ownerID, changes)
	if err != nil {
		return nil, s.todoError(err, "Failed to update todo")
	}
	s.indexTodo(ctx, *t)
	return t, nil
}

// parseDueDate accepts an empty string as "no due date". Dates before the
// start of the current local day are rejected.
func (s *TodoService) parseDueDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	due, err := helpers.ParseDueDate(raw, s.Location)
	if err != nil {
		return nil, ValidationError("Invalid dueDate format", map[string]string{"dueDate": "must be a valid date"})
	}
	if due.Before(helpers.StartOfDay(s.now(), s.Location)) {
		return nil, ValidationError("dueDate cannot be in the past", map[string]string{"dueDate": "must not be in the past"})
	}
	return &due, nil
}

func (s *TodoService) notify(ctx context.Context, job mailer.EmailJob) error {
	if s.Notifier == nil {
		return mailer.ErrNotConfigured
	}
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Notifier.Dispatch(ctx, job)
}

func (s *TodoService) indexTodo(ctx context.Context, t entity.Todo) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.warn(err, "index todo failed", t.ID)
	}
}

func (s *TodoService) todoError(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NotFoundError("Todo not found")
	}
	return InternalError(msg, err)
}

func (s *TodoService) warn(err error, msg, todoID string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("todo_id", todoID).Warn(msg)
	}
}

// inLocation renders stored due dates on the service's calendar.
func inLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil || loc == nil {
		return t
	}
	local := t.In(loc)
	return &local
}

func (s *TodoService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
