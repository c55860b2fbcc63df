package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/godilite/collab-dashboard/internal/loader"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"DATA_SOURCE", "GRPC_PORT", "HTTP_PORT", "SESSION_TTL", "REVIEW_LIMIT", "PERIOD_MODE", "SPLIT_YEAR", "CACHE_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, SourceSample, cfg.DataSource)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 1000, cfg.ReviewLimit)
	assert.Equal(t, loader.PeriodIntegrated, cfg.PeriodMode)
	assert.Equal(t, 2025, cfg.SplitYear)
	assert.False(t, cfg.CacheEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "xlsx")
	t.Setenv("DATA_PATH", "/data/survey.xlsx")
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("PERIOD_MODE", "split")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REVIEW_LIMIT", "not-a-number")

	cfg := LoadFromEnv()

	assert.Equal(t, SourceXLSX, cfg.DataSource)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, loader.PeriodSplit, cfg.PeriodMode)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 1000, cfg.ReviewLimit)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{DataSource: SourceSample, ReviewLimit: 1000, GRPCPort: 50051, HTTPPort: 8080, DBPath: "x.db"}
	}

	cfg := base()
	cfg.DataSource = "ftp"
	assert.ErrorContains(t, cfg.Validate(), "unknown DATA_SOURCE")

	cfg = base()
	cfg.DataSource = SourceJSON
	assert.ErrorContains(t, cfg.Validate(), "DATA_PATH is required")

	cfg = base()
	cfg.ReviewLimit = 0
	assert.ErrorContains(t, cfg.Validate(), "REVIEW_LIMIT")

	cfg = base()
	cfg.HTTPPort = cfg.GRPCPort
	assert.ErrorContains(t, cfg.Validate(), "must differ")

	cfg = base()
	cfg.DataSource = SourceSQLite
	assert.NoError(t, cfg.Validate())
}
