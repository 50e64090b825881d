package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-todo/config"
	"github.com/oksasatya/go-ddd-todo/internal/container"
	"github.com/oksasatya/go-ddd-todo/internal/router"
	"github.com/oksasatya/go-ddd-todo/internal/scheduler"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	c, err := container.Build(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer c.Close()

	var sched *scheduler.Scheduler
	if cfg.ReminderEnabled {
		sched, err = scheduler.New(cfg.ReminderSchedule, c.ReminderService, logger,
			scheduler.WithRedis(c.Redis),
			scheduler.WithLocation(c.Location),
			scheduler.WithRunTimeout(cfg.ReminderTimeout),
		)
		if err != nil {
			logger.WithError(err).Fatalf("invalid REMINDER_SCHEDULE %q", cfg.ReminderSchedule)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if sched != nil {
		sched.Stop(ctxShutdown)
	}
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}
