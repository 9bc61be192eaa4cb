package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type MySQLOptions struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// DSN builds the go-sql-driver connection string.
func (o MySQLOptions) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		o.User, o.Password, o.Host, o.Port, o.Database)
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	Redis   RedisOptions
	MySQL   MySQLOptions

	// Log receives connection messages. Defaults to the standard logger.
	Log logrus.FieldLogger
}

// Open connects the configured backend. The returned close function
// releases its connections and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }
	var base logrus.FieldLogger = logrus.StandardLogger()
	if opts.Log != nil {
		base = opts.Log
	}
	log := base.WithField("backend", opts.Backend)

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), noop, nil

	case BackendFile:
		if opts.Path == "" {
			return nil, noop, fmt.Errorf("leaderboard: file backend needs a path")
		}
		log.WithField("path", opts.Path).Info("leaderboard: using file store")
		return NewFileStore(opts.Path), noop, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         opts.Redis.Addr,
			Password:     opts.Redis.Password,
			DB:           opts.Redis.DB,
			PoolSize:     4,
			MinIdleConns: 1,
			MaxConnAge:   30 * time.Minute,
		})
		if _, err := client.Ping(ctx).Result(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("leaderboard: redis ping %s: %w", opts.Redis.Addr, err)
		}
		log.WithField("addr", opts.Redis.Addr).Info("leaderboard: redis connected")
		return NewRedisStore(client, opts.Redis.KeyPrefix), client.Close, nil

	case BackendMySQL:
		db, err := gorm.Open(mysql.Open(opts.MySQL.DSN()), &gorm.Config{
			Logger: logger.New(base, logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			}),
		})
		if err != nil {
			return nil, noop, fmt.Errorf("leaderboard: mysql connect: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("leaderboard: mysql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		store := NewSQLStore(db)
		if err := store.Migrate(ctx); err != nil {
			sqlDB.Close()
			return nil, noop, err
		}
		log.WithField("host", opts.MySQL.Host).Info("leaderboard: mysql connected")
		return store, sqlDB.Close, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
