package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/config"
	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/container"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// seed creates a demo user and one todo due today, against whichever DB_DRIVER is configured.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("build container")
	}
	defer c.Close()

	const (
		email    = "demo@example.com"
		password = "password123"
	)
	u, err := c.UserService.Register(ctx, application.RegisterInput{Name: "Demo User", Email: email, Password: password})
	if err != nil {
		var ae *application.AppError
		if !errors.As(err, &ae) || ae.Kind != application.KindConflict {
			logger.WithError(err).Fatal("seed user")
		}
		if u, err = c.Users.GetByEmail(ctx, email); err != nil {
			logger.WithError(err).Fatal("load existing demo user")
		}
	}

	due := helpers.StartOfDay(time.Now(), c.Location).Add(18 * time.Hour)
	todo := &entity.Todo{UserID: u.ID, Title: "Try the reminder job", Description: "Seeded todo due today", DueDate: &due}
	if err := c.Todos.Create(ctx, todo); err != nil {
		logger.WithError(err).Fatal("seed todo")
	}

	logger.WithFields(logrus.Fields{
		"user_id":  u.ID,
		"email":    email,
		"password": password,
		"todo_id":  todo.ID,
	}).Info("seed complete")
}
