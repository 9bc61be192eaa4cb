package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/leaderboard"
)

var allKeys = []string{
	"BLOCKFALL_ROWS", "BLOCKFALL_COLS", "BLOCKFALL_SEED", "BLOCKFALL_TICK",
	"BLOCKFALL_LOG_LEVEL", "BLOCKFALL_LOG_FORMAT", "BLOCKFALL_LOG_FILE",
	"BLOCKFALL_AUDIO", "BLOCKFALL_VOLUME", "BLOCKFALL_LEADERBOARD",
	"BLOCKFALL_LEADERBOARD_PATH", "BLOCKFALL_KEY_PREFIX", "BLOCKFALL_HTTP_ADDR",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_HOST", "MYSQL_PORT", "MYSQL_DB",
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Rows)
	assert.Equal(t, 10, cfg.Cols)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 16*time.Millisecond, cfg.Tick)
	assert.True(t, cfg.Audio)
	assert.InDelta(t, 0.6, cfg.AudioVolume, 1e-9)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, leaderboard.BackendFile, cfg.Leaderboard.Backend)
	assert.Equal(t, "blockfall-leaderboard.json", cfg.Leaderboard.Path)
	assert.Equal(t, "127.0.0.1:6379", cfg.Leaderboard.Redis.Addr)
	assert.Equal(t, "3306", cfg.Leaderboard.MySQL.Port)
}

func TestLoadOverrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BLOCKFALL_ROWS", "24")
	t.Setenv("BLOCKFALL_COLS", "12")
	t.Setenv("BLOCKFALL_SEED", "99")
	t.Setenv("BLOCKFALL_TICK", "10ms")
	t.Setenv("BLOCKFALL_AUDIO", "false")
	t.Setenv("BLOCKFALL_VOLUME", "150")
	t.Setenv("BLOCKFALL_LEADERBOARD", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Rows)
	assert.Equal(t, 12, cfg.Cols)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 10*time.Millisecond, cfg.Tick)
	assert.False(t, cfg.Audio)
	assert.Equal(t, 1.0, cfg.AudioVolume)
	assert.Equal(t, leaderboard.BackendRedis, cfg.Leaderboard.Backend)
	assert.Equal(t, "cache:6380", cfg.Leaderboard.Redis.Addr)
	assert.Equal(t, 3, cfg.Leaderboard.Redis.DB)

	engineCfg := cfg.Engine(logrus.New())
	assert.Equal(t, 24, engineCfg.Rows)
	assert.Equal(t, 12, engineCfg.Cols)
	assert.Equal(t, uint64(99), engineCfg.Seed)
	assert.Equal(t, int64(1000), engineCfg.BaseInterval)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"BLOCKFALL_ROWS", "tall"},
		{"BLOCKFALL_ROWS", "2"},
		{"BLOCKFALL_COLS", "-1"},
		{"BLOCKFALL_SEED", "-5"},
		{"BLOCKFALL_TICK", "soon"},
		{"BLOCKFALL_TICK", "-1s"},
		{"BLOCKFALL_AUDIO", "loud"},
		{"BLOCKFALL_VOLUME", "max"},
		{"REDIS_DB", "zero"},
		{"BLOCKFALL_LEADERBOARD", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("level and format", func(t *testing.T) {
		cfg := &Config{LogLevel: "debug", LogFormat: "json"}
		log, closer, err := cfg.Logger()
		require.NoError(t, err)
		defer closer.Close()

		assert.Equal(t, logrus.DebugLevel, log.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blockfall.log")
		cfg := &Config{LogLevel: "info", LogFile: path}
		log, closer, err := cfg.Logger()
		require.NoError(t, err)

		log.Info("hello")
		require.NoError(t, closer.Close())
		assert.FileExists(t, path)
	})

	t.Run("bad level", func(t *testing.T) {
		_, _, err := (&Config{LogLevel: "chatty"}).Logger()
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := (&Config{LogLevel: "info", LogFormat: "xml"}).Logger()
		assert.Error(t, err)
	})
}
