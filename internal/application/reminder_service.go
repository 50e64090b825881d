package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer/templates"
)

// ReminderReport summarizes one reminder batch.
type ReminderReport struct {
	Users  int `json:"users"`
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ReminderService emails every user about their todos due today.
type ReminderService struct {
	Users    repo.UserRepository
	Todos    *TodoService
	Notifier Notifier
	Logger   *logrus.Logger

	AppName     string
	SendTimeout time.Duration
}

func NewReminderService(users repo.UserRepository, todos *TodoService, notifier Notifier, logger *logrus.Logger) *ReminderService {
	return &ReminderService{
		Users:       users,
		Todos:       todos,
		Notifier:    notifier,
		Logger:      logger,
		SendTimeout: defaultSendTimeout,
	}
}

// SendDueToday runs one batch. A failure for one user or todo is logged and
// counted and the batch moves on. Only cancellation of ctx stops it early.
func (s *ReminderService) SendDueToday(ctx context.Context) (ReminderReport, error) {
	var rep ReminderReport
	reminderRuns.Add(1)

	users, err := s.Users.List(ctx)
	if err != nil {
		return rep, InternalError("Failed to list users", err)
	}
	rep.Users = len(users)

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		todos, err := s.Todos.DueToday(ctx, u.ID)
		if err != nil {
			rep.Failed++
			s.log(err, "load todos due today failed", logrus.Fields{"user_id": u.ID})
			continue
		}
		for _, t := range todos {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			rep.Due++
			if err := s.remind(ctx, u, t); err != nil {
				rep.Failed++
				remindersFailed.Add(1)
				s.log(err, "send reminder failed", logrus.Fields{"user_id": u.ID, "todo_id": t.ID})
				continue
			}
			rep.Sent++
			remindersSent.Add(1)
		}
	}

	helpers.LogInfo(s.Logger, "reminder batch finished", logrus.Fields{
		"users": rep.Users, "due": rep.Due, "sent": rep.Sent, "failed": rep.Failed,
	})
	return rep, nil
}

func (s *ReminderService) remind(ctx context.Context, u entity.User, t entity.Todo) error {
	if s.Notifier == nil {
		return mailer.ErrNotConfigured
	}
	data := templates.NewTodoEmailData(templates.TodoReminder, u.Name, u.Email, t.ID, t.Title,
		templates.WithDescription(t.Description),
		templates.WithDueDate(inLocation(t.DueDate, s.Todos.Location)),
		templates.WithAppName(s.AppName),
	)
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Notifier.Dispatch(ctx, mailer.EmailJob{To: u.Email, Template: templates.TodoReminder, Data: templates.ToMap(data)})
}

func (s *ReminderService) log(err error, msg string, fields logrus.Fields) {
	helpers.LogError(s.Logger, msg, err, fields)
}
