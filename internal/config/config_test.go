package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionalKeys = []string{
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"LEDGER_TIMEZONE", "LEDGER_STORE_TIMEOUT", "LEDGER_COMMIT_ATTEMPTS",
	"NOTIFY_WORKERS", "NOTIFY_QUEUE_SIZE", "NOTIFY_RETENTION_DAYS", "NOTIFY_CLEANUP_AT",
}

// setRequired sets the mandatory variables and blanks every optional one
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("BOT_PASSWORD", "test_password")
	t.Setenv("DB_PASSWORD", "test_db_password")
	for _, key := range optionalKeys {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Ledger.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.Ledger.Timezone = "Mars/Olympus_Mons"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "missing bot token", missing: "BOT_TOKEN"},
		{name: "missing bot password", missing: "BOT_PASSWORD"},
		{name: "missing db password", missing: "DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.missing, "")

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "test_password", cfg.BotPassword)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "studyledger", cfg.Database.Name)
	assert.Equal(t, "studyledger", cfg.Database.User)

	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "Local", cfg.Ledger.Timezone)
	assert.Equal(t, 5*time.Second, cfg.Ledger.StoreTimeout)
	assert.Equal(t, 5, cfg.Ledger.CommitAttempts)

	assert.Equal(t, 4, cfg.Notifications.Workers)
	assert.Equal(t, 256, cfg.Notifications.QueueSize)
	assert.Equal(t, 30, cfg.Notifications.RetentionDays)
	assert.Equal(t, "03:00", cfg.Notifications.CleanupAt)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LEDGER_TIMEZONE", "Europe/Berlin")
	t.Setenv("LEDGER_STORE_TIMEOUT", "750ms")
	t.Setenv("LEDGER_COMMIT_ATTEMPTS", "9")
	t.Setenv("NOTIFY_WORKERS", "2")
	t.Setenv("NOTIFY_RETENTION_DAYS", "7")
	t.Setenv("NOTIFY_CLEANUP_AT", "04:30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.StoreTimeout)
	assert.Equal(t, 9, cfg.Ledger.CommitAttempts)
	assert.Equal(t, 2, cfg.Notifications.Workers)
	assert.Equal(t, 7, cfg.Notifications.RetentionDays)
	assert.Equal(t, "04:30", cfg.Notifications.CleanupAt)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "REDIS_DB", value: "zero"},
		{key: "LEDGER_STORE_TIMEOUT", value: "5 seconds"},
		{key: "LEDGER_COMMIT_ATTEMPTS", value: "many"},
		{key: "NOTIFY_QUEUE_SIZE", value: "1e3"},
		{key: "LEDGER_TIMEZONE", value: "Nowhere/Special"},
		{key: "NOTIFY_CLEANUP_AT", value: "3am"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
