// Package scheduler triggers the daily reminder batch.
package scheduler

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// DefaultSpec fires at noon local time.
const DefaultSpec = "0 12 * * *"

const lockTTL = 23 * time.Hour

// Runner executes one reminder batch.
type Runner interface {
	SendDueToday(ctx context.Context) (application.ReminderReport, error)
}

// Scheduler runs the reminder batch on a cron spec. With a Redis client set,
// only the first replica to take the day's lock runs the batch.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	rdb      *redis.Client
	logger   *logrus.Logger
	loc      *time.Location
	owner    string
	timeout  time.Duration
	now      func() time.Time
	baseCtx  context.Context
	cancelFn context.CancelFunc
}

type Option func(*Scheduler)

func WithRedis(rdb *redis.Client) Option { return func(s *Scheduler) { s.rdb = rdb } }

func WithLocation(loc *time.Location) Option { return func(s *Scheduler) { s.loc = loc } }

// WithRunTimeout bounds a whole batch.
func WithRunTimeout(d time.Duration) Option { return func(s *Scheduler) { s.timeout = d } }

func WithClock(now func() time.Time) Option { return func(s *Scheduler) { s.now = now } }

// New parses spec (standard five fields) and returns a stopped scheduler.
func New(spec string, runner Runner, logger *logrus.Logger, opts ...Option) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	host, _ := os.Hostname()
	s := &Scheduler{
		runner:  runner,
		logger:  logger,
		loc:     time.Local,
		owner:   host + ":" + strconv.Itoa(os.Getpid()),
		timeout: 30 * time.Minute,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.baseCtx, s.cancelFn = context.WithCancel(context.Background())
	s.cron = cron.New(cron.WithLocation(s.loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(s.baseCtx) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("entries", len(s.cron.Entries())).Info("reminder scheduler started")
}

// Stop cancels a running batch and waits for it, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancelFn()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("reminder scheduler stop timed out")
	}
}

// RunOnce runs the batch now. ran is false when another replica holds today's
// lock. A batch that aborts releases the lock so a later trigger can retry.
func (s *Scheduler) RunOnce(ctx context.Context) (ran bool, err error) {
	key := LockKey(s.now(), s.loc)
	locked := false
	if s.rdb != nil {
		ok, err := helpers.RedisTryLock(ctx, s.rdb, key, s.owner, lockTTL)
		switch {
		case err != nil:
			// fail open
			s.logger.WithError(err).Warn("reminder lock unavailable")
		case !ok:
			s.logger.WithField("lock", key).Info("reminder batch already claimed")
			return false, nil
		default:
			locked = true
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.runner.SendDueToday(runCtx); err != nil {
		s.logger.WithError(err).Error("reminder batch aborted")
		if locked {
			if derr := helpers.RedisDel(context.WithoutCancel(ctx), s.rdb, key); derr != nil {
				s.logger.WithError(derr).WithField("lock", key).Warn("reminder lock release failed")
			}
		}
		return true, err
	}
	return true, nil
}

// LockKey names the per-day lock, e.g. "reminder:lock:2024-05-01".
func LockKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return "reminder:lock:" + t.In(loc).Format("2006-01-02")
}
