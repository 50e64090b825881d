package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer/templates"
)

type todoFixture struct {
	svc      *TodoService
	notifier *fakeNotifier
	store    *memory.Store
	ann, bob *entity.User
}

func newTodoFixture(t *testing.T) *todoFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	ann := &entity.User{Name: "Ann", Email: "ann@example.com"}
	bob := &entity.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, store.Users().Create(ctx, ann))
	require.NoError(t, store.Users().Create(ctx, bob))

	n := &fakeNotifier{}
	svc := NewTodoService(store.Todos(), store.Users(), n, quietLogger())
	svc.Now = func() time.Time { return fixedNow }
	svc.Location = time.UTC
	return &todoFixture{svc: svc, notifier: n, store: store, ann: ann, bob: bob}
}

func (f *todoFixture) add(t *testing.T, owner *entity.User, title, due string) *entity.Todo {
	t.Helper()
	td, err := f.svc.Add(context.Background(), owner.ID, CreateTodoInput{Title: title, DueDate: due})
	require.NoError(t, err)
	return td
}

func TestAdd(t *testing.T) {
	f := newTodoFixture(t)

	td, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: " Buy milk ", Description: "2L", DueDate: "2024-05-03"})
	require.NoError(t, err)
	assert.NotEmpty(t, td.ID)
	assert.Equal(t, "Buy milk", td.Title)
	assert.False(t, td.Completed)
	require.NotNil(t, td.DueDate)
	assert.True(t, td.DueDate.Equal(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)))

	jobs := f.notifier.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, "ann@example.com", jobs[0].To)
	assert.Equal(t, templates.TodoCreated, jobs[0].Template)
	assert.Equal(t, "Buy milk", jobs[0].Data["Title"])
}

func TestAddDueDateRules(t *testing.T) {
	tests := []struct {
		name    string
		due     string
		wantMsg string
	}{
		{"today date only", "2024-05-01", ""},
		{"today earlier hour", "2024-05-01T01:00:00Z", ""},
		{"no due date", "", ""},
		{"garbage", "next tuesday", "Invalid dueDate format"},
		{"yesterday", "2024-04-30", "dueDate cannot be in the past"},
		{"yesterday late", "2024-04-30T23:59:59Z", "dueDate cannot be in the past"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTodoFixture(t)
			_, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: "x", DueDate: tt.due})
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			ae := requireKind(t, err, KindValidation)
			assert.Equal(t, tt.wantMsg, ae.Message)
			todos, _ := f.store.Todos().ListByOwner(context.Background(), f.ann.ID)
			assert.Empty(t, todos)
		})
	}
}

func TestAddValidation(t *testing.T) {
	f := newTodoFixture(t)
	for _, title := range []string{"", "   "} {
		_, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: title})
		ae := requireKind(t, err, KindValidation)
		assert.Contains(t, ae.Details, "title")
	}
}

func TestAddNotificationFailureKeepsTodo(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"not configured", mailer.ErrNotConfigured, "Email configuration is not set"},
		{"send failed", errors.New("timeout"), "Failed to send email notification"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTodoFixture(t)
			f.notifier.err = tt.err

			_, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: "kept"})
			ae := requireKind(t, err, KindInternal)
			assert.Equal(t, tt.wantMsg, ae.Message)

			todos, err := f.svc.List(context.Background(), f.ann.ID)
			require.NoError(t, err)
			require.Len(t, todos, 1)
			assert.Equal(t, "kept", todos[0].Title)
		})
	}
}

func TestAddWithoutNotifier(t *testing.T) {
	f := newTodoFixture(t)
	f.svc.Notifier = nil
	_, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: "x"})
	ae := requireKind(t, err, KindInternal)
	assert.Equal(t, "Email configuration is not set", ae.Message)
}

func TestAddUnknownOwner(t *testing.T) {
	f := newTodoFixture(t)
	_, err := f.svc.Add(context.Background(), "ghost", CreateTodoInput{Title: "x"})
	ae := requireKind(t, err, KindNotFound)
	assert.Equal(t, "User not found", ae.Message)
}

func TestListAndGet(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx, f.ann.ID)
	ae := requireKind(t, err, KindNotFound)
	assert.Equal(t, "No todos found for this user", ae.Message)

	td := f.add(t, f.ann, "mine", "")
	todos, err := f.svc.List(ctx, f.ann.ID)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	got, err := f.svc.Get(ctx, td.ID, f.ann.ID)
	require.NoError(t, err)
	assert.Equal(t, td.ID, got.ID)

	_, err = f.svc.Get(ctx, td.ID, f.bob.ID)
	requireKind(t, err, KindNotFound)
	_, err = f.svc.List(ctx, f.bob.ID)
	requireKind(t, err, KindNotFound)
}

func TestUpdate(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()
	td, err := f.svc.Add(ctx, f.ann.ID, CreateTodoInput{Title: "old", Description: "keep me"})
	require.NoError(t, err)

	title := "new"
	done := true
	got, err := f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{Title: &title, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "keep me", got.Description)
	assert.True(t, got.Completed)

	past := "2024-01-01"
	_, err = f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{DueDate: &past})
	ae := requireKind(t, err, KindValidation)
	assert.Equal(t, "dueDate cannot be in the past", ae.Message)

	blank := " "
	_, err = f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{Title: &blank})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Update(ctx, td.ID, f.bob.ID, UpdateTodoInput{Title: &title})
	requireKind(t, err, KindNotFound)

	same, err := f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{})
	require.NoError(t, err)
	assert.Equal(t, "new", same.Title)
}

func TestMarkUnmarkIdempotent(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()
	td := f.add(t, f.ann, "x", "")

	for i := 0; i < 2; i++ {
		got, err := f.svc.Mark(ctx, td.ID, f.ann.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
	}
	for i := 0; i < 2; i++ {
		got, err := f.svc.Unmark(ctx, td.ID, f.ann.ID)
		require.NoError(t, err)
		assert.False(t, got.Completed)
	}
	_, err := f.svc.Mark(ctx, td.ID, f.bob.ID)
	requireKind(t, err, KindNotFound)
	_, err = f.svc.Unmark(ctx, td.ID, f.bob.ID)
	requireKind(t, err, KindNotFound)
}

func TestUpdateClearsDueDate(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()
	td := f.add(t, f.ann, "x", "2024-05-02")
	require.NotNil(t, td.DueDate)

	title := "y"
	got, err := f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, got.DueDate, "omitted dueDate is kept")

	empty := ""
	got, err = f.svc.Update(ctx, td.ID, f.ann.ID, UpdateTodoInput{DueDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "y", got.Title)

	reloaded, err := f.svc.Get(ctx, td.ID, f.ann.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DueDate)
}

func TestDelete(t *testing.T) {
	f := newTodoFixture(t)
	idx := newFakeIndex()
	f.svc.Index = idx
	ctx := context.Background()
	td := f.add(t, f.ann, "gone", "")

	_, err := f.svc.Delete(ctx, td.ID, f.bob.ID)
	requireKind(t, err, KindNotFound)

	deleted, err := f.svc.Delete(ctx, td.ID, f.ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone", deleted.Title)
	assert.Equal(t, []string{td.ID}, idx.deleted)

	_, err = f.svc.Delete(ctx, td.ID, f.ann.ID)
	requireKind(t, err, KindNotFound)
}

func TestDueToday(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	empty, err := f.svc.DueToday(ctx, f.ann.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	f.add(t, f.ann, "today", "2024-05-01T18:00:00Z")
	f.add(t, f.ann, "tomorrow", "2024-05-02")
	f.add(t, f.ann, "undated", "")
	f.add(t, f.bob, "bob today", "2024-05-01")

	due, err := f.svc.DueToday(ctx, f.ann.ID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "today", due[0].Title)
}

func TestSearch(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	_, err := f.svc.Search(ctx, f.ann.ID, "  ")
	requireKind(t, err, KindValidation)

	res, err := f.svc.Search(ctx, f.ann.ID, "milk")
	require.NoError(t, err)
	assert.Empty(t, res)

	idx := newFakeIndex()
	idx.results = []entity.Todo{{ID: "1", Title: "milk"}}
	f.svc.Index = idx
	res, err = f.svc.Search(ctx, f.ann.ID, "milk")
	require.NoError(t, err)
	assert.Len(t, res, 1)

	idx.err = errors.New("es down")
	_, err = f.svc.Search(ctx, f.ann.ID, "milk")
	requireKind(t, err, KindInternal)
}

func TestIndexFailureDoesNotFailWrites(t *testing.T) {
	f := newTodoFixture(t)
	idx := newFakeIndex()
	idx.err = errors.New("es down")
	f.svc.Index = idx

	td, err := f.svc.Add(context.Background(), f.ann.ID, CreateTodoInput{Title: "x"})
	require.NoError(t, err)
	_, err = f.svc.Mark(context.Background(), td.ID, f.ann.ID)
	require.NoError(t, err)
}

func TestIndexedOnCreateAndMark(t *testing.T) {
	f := newTodoFixture(t)
	idx := newFakeIndex()
	f.svc.Index = idx

	td := f.add(t, f.ann, "x", "")
	require.Contains(t, idx.indexed, td.ID)
	assert.False(t, idx.indexed[td.ID].Completed)

	_, err := f.svc.Mark(context.Background(), td.ID, f.ann.ID)
	require.NoError(t, err)
	assert.True(t, idx.indexed[td.ID].Completed)
}
