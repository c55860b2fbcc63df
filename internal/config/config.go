package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/loader"
)

// Data sources the server can load the dataset from.
const (
	SourceSample = "sample"
	SourceJSON   = "json"
	SourceXLSX   = "xlsx"
	SourceSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DataSource            string
	DataPath              string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	CacheEnabled          bool
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
	SessionTTL            time.Duration
	ReviewLimit           int
	PeriodMode            loader.PeriodMode
	SplitYear             int
	ShutdownTimeout       time.Duration
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	mode, err := loader.ParsePeriodMode(getEnv("PERIOD_MODE", string(loader.PeriodIntegrated)))
	if err != nil {
		mode = loader.PeriodIntegrated
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DataSource:            getEnv("DATA_SOURCE", SourceSample),
		DataPath:              getEnv("DATA_PATH", ""),
		DBPath:                getEnv("DB_PATH", "./data/dashboard.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		CacheEnabled:          getEnvBool("CACHE_ENABLED", false),
		CacheTTL:              getEnvDuration("CACHE_TTL", 10*time.Minute),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		SessionTTL:            getEnvDuration("SESSION_TTL", 30*time.Minute),
		ReviewLimit:           getEnvInt("REVIEW_LIMIT", 1000),
		PeriodMode:            mode,
		SplitYear:             getEnvInt("SPLIT_YEAR", 2025),
		ShutdownTimeout:       getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate rejects combinations the application cannot start with.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceSample:
	case SourceJSON, SourceXLSX:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required for data source %q", c.DataSource)
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for data source %q", c.DataSource)
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.ReviewLimit <= 0 {
		return fmt.Errorf("REVIEW_LIMIT must be positive, got %d", c.ReviewLimit)
	}
	if c.HTTPPort != 0 && c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must differ (both %d)", c.HTTPPort)
	}
	return nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
