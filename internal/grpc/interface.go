package grpc

import (
	"context"
	"time"

	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/survey"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// InsightService computes the filter-keyed views over the loaded dataset.
type InsightService interface {
	Fingerprint() string
	TeamRanking(ctx context.Context, filters survey.FilterState) ([]service.RankingGroup, error)
	SentimentDistribution(ctx context.Context, filters survey.FilterState) ([]service.SentimentCount, error)
	KeywordFrequency(ctx context.Context, filters survey.FilterState, n int) ([]service.KeywordCount, error)
	DepartmentStats(ctx context.Context, filters survey.FilterState) ([]service.DepartmentStat, error)
}

// SessionManager owns the per-client dashboards.
type SessionManager interface {
	Create(ctx context.Context) (string, error)
	Close(id string) error
	With(ctx context.Context, id string, fn func(d *service.Dashboard) error) error
}
