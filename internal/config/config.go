package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken      string
	BotPassword   string
	Database      DatabaseConfig
	Redis         RedisConfig
	Ledger        LedgerConfig
	Notifications NotificationsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RedisConfig holds the pub/sub connection. Empty Addr disables redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LedgerConfig tunes the progress ledger
type LedgerConfig struct {
	Timezone       string
	StoreTimeout   time.Duration
	CommitAttempts int
}

// NotificationsConfig tunes delivery and retention of notifications
type NotificationsConfig struct {
	Workers       int
	QueueSize     int
	RetentionDays int
	CleanupAt     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "studyledger"),
			User:     getEnv("DB_USER", "studyledger"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Ledger: LedgerConfig{
			Timezone: getEnv("LEDGER_TIMEZONE", "Local"),
		},
		Notifications: NotificationsConfig{
			CleanupAt: getEnv("NOTIFY_CLEANUP_AT", "03:00"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Ledger.StoreTimeout, err = getEnvDuration("LEDGER_STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Ledger.CommitAttempts, err = getEnvInt("LEDGER_COMMIT_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.Notifications.Workers, err = getEnvInt("NOTIFY_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.Notifications.QueueSize, err = getEnvInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.Notifications.RetentionDays, err = getEnvInt("NOTIFY_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("LEDGER_TIMEZONE: %w", err)
	}
	if _, err := time.Parse("15:04", cfg.Notifications.CleanupAt); err != nil {
		return nil, fmt.Errorf("NOTIFY_CLEANUP_AT must be HH:MM: %w", err)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Location resolves the timezone calendar days are counted in
func (c *Config) Location() (*time.Location, error) {
	if c.Ledger.Timezone == "" || c.Ledger.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Ledger.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
