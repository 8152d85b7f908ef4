package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "LISTEN_ADDR", "DATABASE_PATH", "SESSION_SECRET", "GIN_MODE",
	"LOG_LEVEL", "LOG_FILE", "LOG_TO_STDOUT", "LOG_JSON", "TIMEZONE", "STREAK_EPOCH",
	"SUPER_ROOT_USER_NAME", "SUPER_ROOT_PASSWORD", "SESSION_SECURE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "streaklog.db", cfg.DatabasePath)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "info", cfg.LogLevel)

	epoch, err := cfg.Epoch()
	require.NoError(t, err)
	assert.True(t, epoch.IsZero())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "streaklog.toml")
	content := []byte(`
port = "9000"
database_path = "/var/lib/streaklog/data.db"
timezone = "America/Sao_Paulo"
streak_epoch = "2025-10-01"
log_json = true
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_PATH", "override.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "override.db", cfg.DatabasePath)
	assert.True(t, cfg.LogJSON)

	epoch, err := cfg.Epoch()
	require.NoError(t, err)
	assert.Equal(t, 2025, epoch.Year())
	assert.Equal(t, time.October, epoch.Month())
	assert.Equal(t, 1, epoch.Day())
	assert.Equal(t, "America/Sao_Paulo", epoch.Location().String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "epoch", key: "STREAK_EPOCH", value: "01/10/2025"},
		{name: "timezone", key: "TIMEZONE", value: "Mars/Olympus"},
		{name: "bool", key: "LOG_JSON", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLocationAndEpochReportErrorsOutsideLoad(t *testing.T) {
	cfg := AppConfig{Timezone: "Mars/Olympus", StreakEpoch: "2025-10-01"}

	_, err := cfg.Location()
	require.Error(t, err)
	_, err = cfg.Epoch()
	require.Error(t, err, "epoch depends on the timezone")

	cfg = AppConfig{Timezone: "UTC", StreakEpoch: "2025-13-01"}
	_, err = cfg.Epoch()
	require.Error(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
