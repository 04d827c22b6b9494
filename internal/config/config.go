package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backend names accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Seed     SeedConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Promo    PromoConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StoreConfig selects the catalog persistence backend.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SeedConfig holds catalog seed configuration. The seed file may live
// on the local file system or in S3.
type SeedConfig struct {
	Enabled   bool
	File      string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Key     string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// PromoConfig holds promotion display settings.
type PromoConfig struct {
	Currency string
}

// Load loads configuration from environment variables. A local .env
// file is applied first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", BackendMemory),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "promos"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Seed: SeedConfig{
			Enabled:   getEnvAsBool("SEED_ENABLED", false),
			File:      getEnv("SEED_FILE", "data/promos.json"),
			S3Enabled: getEnvAsBool("SEED_S3_ENABLED", false),
			S3Bucket:  getEnv("SEED_S3_BUCKET", ""),
			S3Region:  getEnv("SEED_S3_REGION", "us-east-1"),
			S3Key:     getEnv("SEED_S3_KEY", "promos/promos.json"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Promo: PromoConfig{
			Currency: getEnv("PROMO_CURRENCY", "EUR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}
		if c.Database.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory, postgres, or redis)", c.Store.Backend)
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Promo.Currency == "" {
		return fmt.Errorf("promo currency is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Seed.S3Enabled {
		if c.Seed.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 seeding is enabled")
		}
		if c.Seed.S3Region == "" {
			return fmt.Errorf("S3 region is required when S3 seeding is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
