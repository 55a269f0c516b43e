package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Concurrency ConcurrencyConfig
	Alert       AlertConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// =====================================================
// CONCURRENCY CONFIGURATION
// =====================================================

type ConcurrencyConfig struct {
	OptimisticMaxAttempts int           // số lần thử tối đa cho version conflict
	OptimisticBackoff     time.Duration // delay cố định giữa các lần thử
	BatchPoolSize         int           // số workers ingest album
	ViewLockTimeout       time.Duration // 0 = chờ lock vô hạn
}

// =====================================================
// ALERT CONFIGURATION
// =====================================================

type AlertConfig struct {
	Enabled               bool
	SlackAPIURL           string
	SlackToken            string
	SlackChannel          string
	Signature             string
	SlowResponseThreshold time.Duration
	HTTPTimeout           time.Duration
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Playlist API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "playlist"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 24*60),
		},
		Concurrency: ConcurrencyConfig{
			OptimisticMaxAttempts: getEnvInt("OPTIMISTIC_MAX_ATTEMPTS", 10),
			OptimisticBackoff:     getEnvDuration("OPTIMISTIC_BACKOFF", 100*time.Millisecond),
			BatchPoolSize:         getEnvInt("BATCH_POOL_SIZE", 4),
			ViewLockTimeout:       getEnvDuration("VIEW_LOCK_TIMEOUT", 0),
		},
		Alert: AlertConfig{
			Enabled:               getEnvBool("ALERT_ENABLED", false),
			SlackAPIURL:           getEnv("SLACK_API_URL", "https://slack.com/api/chat.postMessage"),
			SlackToken:            getEnv("SLACK_TOKEN", ""),
			SlackChannel:          getEnv("SLACK_CHANNEL", ""),
			Signature:             getEnv("SLACK_SIGNATURE", ""),
			SlowResponseThreshold: getEnvDuration("SLOW_RESPONSE_THRESHOLD", 3*time.Second),
			HTTPTimeout:           getEnvDuration("ALERT_HTTP_TIMEOUT", 5*time.Second),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if err := validation.ValidateStruct(&c.Concurrency,
		validation.Field(&c.Concurrency.OptimisticMaxAttempts, validation.Min(1)),
		validation.Field(&c.Concurrency.OptimisticBackoff, validation.Min(time.Duration(0))),
		validation.Field(&c.Concurrency.BatchPoolSize, validation.Min(1)),
		validation.Field(&c.Concurrency.ViewLockTimeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("concurrency: %w", err)
	}

	if c.Alert.Enabled {
		if err := validation.ValidateStruct(&c.Alert,
			validation.Field(&c.Alert.SlackAPIURL, validation.Required, is.URL),
			validation.Field(&c.Alert.SlackToken, validation.Required),
			validation.Field(&c.Alert.SlackChannel, validation.Required),
		); err != nil {
			return fmt.Errorf("alert: %w", err)
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
