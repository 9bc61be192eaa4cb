// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/leaderboard"
)

// Config holds every setting the binaries read.
type Config struct {
	Rows int
	Cols int
	Seed uint64
	Tick time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	Audio       bool
	AudioVolume float64

	Leaderboard leaderboard.Options

	HTTPAddr string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var err error
	cfg := &Config{
		LogLevel:  getenv("BLOCKFALL_LOG_LEVEL", "info"),
		LogFormat: getenv("BLOCKFALL_LOG_FORMAT", "text"),
		LogFile:   os.Getenv("BLOCKFALL_LOG_FILE"),
		HTTPAddr:  getenv("BLOCKFALL_HTTP_ADDR", ":8080"),
		Leaderboard: leaderboard.Options{
			Backend: getenv("BLOCKFALL_LEADERBOARD", leaderboard.BackendFile),
			Path:    getenv("BLOCKFALL_LEADERBOARD_PATH", "blockfall-leaderboard.json"),
			Redis: leaderboard.RedisOptions{
				Addr:      getenv("REDIS_ADDR", "127.0.0.1:6379"),
				Password:  os.Getenv("REDIS_PASSWORD"),
				KeyPrefix: getenv("BLOCKFALL_KEY_PREFIX", "blockfall:"),
			},
			MySQL: leaderboard.MySQLOptions{
				User:     os.Getenv("MYSQL_USER"),
				Password: os.Getenv("MYSQL_PASSWORD"),
				Host:     getenv("MYSQL_HOST", "127.0.0.1"),
				Port:     getenv("MYSQL_PORT", "3306"),
				Database: getenv("MYSQL_DB", "blockfall"),
			},
		},
	}

	defaults := engine.DefaultConfig()
	if cfg.Rows, err = intenv("BLOCKFALL_ROWS", defaults.Rows); err != nil {
		return nil, err
	}
	if cfg.Cols, err = intenv("BLOCKFALL_COLS", defaults.Cols); err != nil {
		return nil, err
	}
	if cfg.Rows < 4 || cfg.Cols < 4 {
		return nil, fmt.Errorf("config: board must be at least 4x4, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Leaderboard.Redis.DB, err = intenv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if raw := os.Getenv("BLOCKFALL_SEED"); raw != "" {
		if cfg.Seed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("config: BLOCKFALL_SEED: %w", err)
		}
	}

	cfg.Tick = 16 * time.Millisecond
	if raw := os.Getenv("BLOCKFALL_TICK"); raw != "" {
		if cfg.Tick, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("config: BLOCKFALL_TICK: %w", err)
		}
		if cfg.Tick <= 0 {
			return nil, fmt.Errorf("config: BLOCKFALL_TICK must be positive, got %s", cfg.Tick)
		}
	}

	cfg.Audio = true
	if raw := os.Getenv("BLOCKFALL_AUDIO"); raw != "" {
		if cfg.Audio, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("config: BLOCKFALL_AUDIO: %w", err)
		}
	}

	volume, err := intenv("BLOCKFALL_VOLUME", 60)
	if err != nil {
		return nil, err
	}
	cfg.AudioVolume = float64(min(max(volume, 0), 100)) / 100.0

	if cfg.Leaderboard.Backend == leaderboard.BackendMySQL && cfg.Leaderboard.MySQL.User == "" {
		return nil, fmt.Errorf("config: MYSQL_USER environment variable not set")
	}

	return cfg, nil
}

// Engine returns the engine configuration for these settings.
func (c *Config) Engine(log logrus.FieldLogger) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Rows = c.Rows
	cfg.Cols = c.Cols
	cfg.Seed = c.Seed
	cfg.Log = log
	return cfg
}

// Logger builds a logger for the configured level and format. When LogFile
// is set, output is appended to that file and the returned closer closes it.
func (c *Config) Logger() (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("config: BLOCKFALL_LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}

	if c.LogFile == "" {
		return log, io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intenv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
