package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
)

var fixedNow = time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
	// failFor makes Dispatch fail only for jobs whose rendered title matches.
	failFor string
}

func (f *fakeNotifier) Dispatch(ctx context.Context, job mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("dispatch without deadline")
	}
	if f.failFor != "" && job.Data["Title"] == f.failFor {
		return errors.New("smtp down")
	}
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeNotifier) sent() []mailer.EmailJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.EmailJob(nil), f.jobs...)
}

type fakeIndex struct {
	indexed map[string]entity.Todo
	deleted []string
	results []entity.Todo
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]entity.Todo{}} }

func (f *fakeIndex) Index(_ context.Context, t entity.Todo) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[t.ID] = t
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, ownerID, q string, size int) ([]entity.Todo, error) {
	return f.results, f.err
}

type fakeTokens struct{ err error }

func (f fakeTokens) IssueToken(userID, email string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "token-" + userID, fixedNow.Add(time.Hour), nil
}
