package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/service/mocks"
	"github.com/godilite/collab-dashboard/internal/survey"
)

func loadedService(t *testing.T) *DashboardService {
	t.Helper()
	src := &mocks.MockBundleSource{
		LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
			return dashboardBundle(), nil
		},
	}
	svc := NewDashboardService(src, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestNewDashboardService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		src := &mocks.MockBundleSource{}
		logger := zap.NewNop()

		svc := NewDashboardService(src, logger, WithServiceReviewLimit(5))

		assert.NotNil(t, svc)
		assert.Equal(t, src, svc.source)
		assert.Equal(t, logger, svc.logger)
		assert.Equal(t, 5, svc.reviewLimit)
	})

	t.Run("nil source panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDashboardService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewDashboardService(&mocks.MockBundleSource{}, nil)

		assert.NotNil(t, svc.logger)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("source failure", func(t *testing.T) {
		src := &mocks.MockBundleSource{
			LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
				return nil, errors.New("disk on fire")
			},
		}
		svc := NewDashboardService(src, zap.NewNop())

		err := svc.Load(ctx)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "disk on fire")
		_, err = svc.Bundle()
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("empty bundle", func(t *testing.T) {
		src := &mocks.MockBundleSource{
			LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
				return &survey.Bundle{}, nil
			},
		}
		svc := NewDashboardService(src, zap.NewNop())

		assert.ErrorIs(t, svc.Load(ctx), ErrNoRecords)
	})

	t.Run("invalid record", func(t *testing.T) {
		src := &mocks.MockBundleSource{
			LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
				b := dashboardBundle()
				b.Records[0].Respect = 7
				return b, nil
			},
		}
		svc := NewDashboardService(src, zap.NewNop())

		err := svc.Load(ctx)

		assert.ErrorIs(t, err, survey.ErrInvalidBundle)
		assert.Contains(t, err.Error(), "respect")
	})

	t.Run("records without rollups get empty tables", func(t *testing.T) {
		src := &mocks.MockBundleSource{
			LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
				b := dashboardBundle()
				b.Aggregates = survey.AggregatedTables{}
				return b, nil
			},
		}
		svc := NewDashboardService(src, zap.NewNop())
		require.NoError(t, svc.Load(ctx))

		b, err := svc.Bundle()
		require.NoError(t, err)
		assert.NotNil(t, b.Aggregates.Hospital)
		assert.NotNil(t, b.Aggregates.Divisions)
		assert.NotEmpty(t, svc.Fingerprint())
	})
}

func TestSnapshot(t *testing.T) {
	svc := loadedService(t)
	filters := survey.DefaultFilters()
	filters.Year = "2023"
	filters.Division = "간호부문"

	snap, err := svc.Snapshot(context.Background(), filters, survey.AllSentiments())

	require.NoError(t, err)
	assert.Equal(t, "2023", snap.Filters.Year)
	assert.Equal(t, 2, snap.Overview.Scores.Count)
	require.Len(t, snap.Divisions.Series, 1)
	assert.Equal(t, 2.5, snap.Divisions.Series[0].R[0])
	assert.Empty(t, snap.Reviews.Reviews, "only a placeholder review in scope")
}

func TestSnapshotCanceled(t *testing.T) {
	svc := loadedService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Snapshot(ctx, survey.DefaultFilters(), survey.AllSentiments())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsightViews(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()
	filters := survey.FilterState{Year: "2024"}

	ranking, err := svc.TeamRanking(ctx, filters)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "외과", ranking[0].Teams[0].Department)

	dist, err := svc.SentimentDistribution(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, dist[0].Count)
	assert.Equal(t, 1, dist[2].Count)

	stats, err := svc.DepartmentStats(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, stats, 2)

	kw, err := svc.KeywordFrequency(ctx, filters, 10)
	require.NoError(t, err)
	assert.Empty(t, kw)
}

func TestInsightViewsBeforeLoad(t *testing.T) {
	svc := NewDashboardService(&mocks.MockBundleSource{}, zap.NewNop())

	_, err := svc.TeamRanking(context.Background(), survey.DefaultFilters())

	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSnapshotBuildsEachViewOnce(t *testing.T) {
	builds := map[string]int{}
	src := &mocks.MockBundleSource{
		LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
			return dashboardBundle(), nil
		},
	}
	svc := NewDashboardService(src, zap.NewNop(),
		WithServiceBuildObserver(func(view string, _ time.Duration) { builds[view]++ }))
	require.NoError(t, svc.Load(context.Background()))

	filters := survey.DefaultFilters()
	filters.Year = "2024"
	filters.Sentiment, _ = survey.NewSentimentSelection("positive")
	reviews, err := survey.NewSentimentSelection("positive")
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background(), filters, reviews)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{ViewOverview: 1, ViewDivisions: 1, ViewReviews: 1}, builds)
	assert.Equal(t, "2024", snap.Filters.Year)
	assert.Equal(t, []string{"positive"}, snap.Filters.Sentiment.Labels())
	assert.Equal(t, []string{"positive"}, snap.Reviews.Selection.Labels())
}

func TestLoadObserver(t *testing.T) {
	var counts []int
	src := &mocks.MockBundleSource{
		LoadFunc: func(ctx context.Context) (*survey.Bundle, error) {
			return dashboardBundle(), nil
		},
	}
	svc := NewDashboardService(src, zap.NewNop(), WithLoadObserver(func(n int) { counts = append(counts, n) }))

	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, []int{len(dashboardBundle().Records)}, counts)
}
