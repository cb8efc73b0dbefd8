package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendMemory   = "memory"
	SessionBackendSQLite   = "sqlite"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

type Config struct {
	Environment string
	API         APIConfig
	Session     SessionConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
	Stub        StubConfig
}

type APIConfig struct {
	BaseURL                string
	Timeout                time.Duration
	RateLimitPerSecond     int
	RateLimitBurst         int
	CircuitBreakerFailures int
	CircuitBreakerReset    time.Duration
}

type SessionConfig struct {
	Backend        string
	Key            string
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisNamespace string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	TextfilePath string
}

type StubConfig struct {
	Addr       string
	JWTSecret  string
	TokenTTL   time.Duration
	BCryptCost int
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first without overriding variables that
// are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{
		Environment: getEnv("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:                strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
			Timeout:                getDurationEnv("API_TIMEOUT", 15*time.Second),
			RateLimitPerSecond:     getIntEnv("API_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:         getIntEnv("API_RATE_LIMIT_BURST", 20),
			CircuitBreakerFailures: getIntEnv("API_CIRCUIT_BREAKER_FAILURES", 5),
			CircuitBreakerReset:    getDurationEnv("API_CIRCUIT_BREAKER_RESET", 30*time.Second),
		},
		Session: SessionConfig{
			Backend:        strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendSQLite)),
			Key:            getEnv("SESSION_KEY", "ega_token"),
			SQLitePath:     getEnv("SESSION_SQLITE_PATH", defaultSQLitePath()),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisNamespace: getEnv("REDIS_NAMESPACE", "ega-bank"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "ega_client"),
			Password:        getEnv("DB_PASSWORD", "ega_client"),
			Name:            getEnv("DB_NAME", "ega_client"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 5),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", true),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "warn")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("METRICS_TEXTFILE", ""),
		},
		Stub: StubConfig{
			Addr:       getEnv("STUB_ADDR", "localhost:8080"),
			JWTSecret:  getEnv("STUB_JWT_SECRET", "ega-stub-secret"),
			TokenTTL:   getDurationEnv("STUB_TOKEN_TTL", 24*time.Hour),
			BCryptCost: getIntEnv("STUB_BCRYPT_COST", 10),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendSQLite, SessionBackendPostgres, SessionBackendRedis:
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	if c.Session.Key == "" {
		return fmt.Errorf("SESSION_KEY must not be empty")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.API.BaseURL)
	}

	if c.IsProduction() && strings.HasPrefix(c.API.BaseURL, "http://localhost") {
		return fmt.Errorf("API_BASE_URL must be set explicitly in production")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// SlogLevel maps the configured level name to a slog level
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds the process logger from the logging section
func (c *LoggingConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Environment == "testing"
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ega-session.db"
	}
	return filepath.Join(dir, "ega-bank", "session.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
