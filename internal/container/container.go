// Package container builds the application's dependencies once at startup.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-ddd-todo/config"
	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-ddd-todo/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
	"github.com/oksasatya/go-ddd-todo/pkg/mailer"
)

// Container holds the constructed components. Optional ones (Redis, ES,
// RabbitMQ) are nil when not configured or unreachable.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Location *time.Location // calendar for "due today" and the reminder trigger

	PGPool *pgxpool.Pool
	Mongo  *mongo.Client
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	JWT      *helpers.JWTManager
	Users    repository.UserRepository
	Todos    repository.TodoRepository
	Notifier application.Notifier

	UserService     *application.UserService
	TodoService     *application.TodoService
	ReminderService *application.ReminderService

	closers []func()
}

// Build connects the storage driver chosen by DB_DRIVER and the optional
// backends, then wires the services.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TZ %q: %w", cfg.ReminderTZ, err)
	}
	c.Location = loc

	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.openRedis(ctx)

	notifier, err := c.buildNotifier()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Notifier = notifier

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName)
	c.UserService = application.NewUserService(c.Users, helpers.BcryptHasher{}, c.JWT, logger)

	c.TodoService = application.NewTodoService(c.Todos, c.Users, c.Notifier, logger)
	c.TodoService.AppName = cfg.AppName
	c.TodoService.SendTimeout = cfg.MailSendTimeout
	c.TodoService.Location = loc
	if idx := c.openSearch(ctx); idx != nil {
		c.TodoService.Index = idx
	}

	c.ReminderService = application.NewReminderService(c.Users, c.TodoService, c.Notifier, logger)
	c.ReminderService.AppName = cfg.AppName
	c.ReminderService.SendTimeout = cfg.MailSendTimeout
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.DBDriver {
	case "postgres", "":
		pool, err := pginfra.NewPool(ctx, c.Config.PostgresDSN(), c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.closers = append(c.closers, pool.Close)
		if err := pginfra.RunMigrations(c.Config.PostgresDSN(), c.Config.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Todos = pginfra.NewTodoRepository(pool)
	case "mongo":
		client, err := mongodb.Connect(ctx, c.Config.MongoURI)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		c.Mongo = client
		c.closers = append(c.closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(c.Config.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.Users = mongodb.NewUserRepository(db)
		c.Todos = mongodb.NewTodoRepository(db)
	case "memory":
		store := memory.NewStore()
		c.Users = store.Users()
		c.Todos = store.Todos()
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Config.DBDriver)
	}
	c.Logger.WithField("driver", c.Config.DBDriver).Info("storage ready")
	return nil
}

func (c *Container) openRedis(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		return
	}
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.WithError(err).Warn("redis unavailable; rate limiting and reminder lock disabled")
		_ = rdb.Close()
		return
	}
	c.Redis = rdb
	c.closers = append(c.closers, func() { _ = rdb.Close() })
}

func (c *Container) openSearch(ctx context.Context) application.TodoIndexer {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return nil
	}
	es, err := search.NewClient(addrs, c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		c.Logger.WithError(err).Warn("elasticsearch client init failed; search disabled")
		return nil
	}
	idx := search.NewTodoIndex(es, c.Config.ESTodosIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		c.Logger.WithError(err).Warn("elasticsearch unavailable; search disabled")
		return nil
	}
	c.ES = es
	return idx
}

// buildNotifier picks the mail path: a log sink when sending is off, the
// RabbitMQ queue for MAIL_TRANSPORT=queue, otherwise Mailgun in-process.
func (c *Container) buildNotifier() (application.Notifier, error) {
	if !c.Config.MailSendEnabled {
		return &mailer.LogDispatcher{Logger: c.Logger}, nil
	}
	if c.Config.UseQueue() {
		pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.Rabbit = pub
		c.closers = append(c.closers, pub.Close)
		return &mailer.QueueDispatcher{Pub: pub}, nil
	}
	mg := mailer.NewMailgun(c.Config.MailgunDomain, c.Config.MailgunAPIKey, c.Config.MailgunSender, c.Config.MailSendTimeout)
	if !mg.Configured() {
		c.Logger.Warn("mailgun is not configured; todo creation will report an email configuration error")
	}
	return &mailer.DirectDispatcher{Transport: mg, Configured: mg.Configured}, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
