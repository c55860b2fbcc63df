package mocks

import (
	"context"
	"errors"

	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/survey"
)

// MockInsightService is a mock implementation of the InsightService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockInsightService struct {
	FingerprintFunc           func() string
	TeamRankingFunc           func(ctx context.Context, filters survey.FilterState) ([]service.RankingGroup, error)
	SentimentDistributionFunc func(ctx context.Context, filters survey.FilterState) ([]service.SentimentCount, error)
	KeywordFrequencyFunc      func(ctx context.Context, filters survey.FilterState, n int) ([]service.KeywordCount, error)
	DepartmentStatsFunc       func(ctx context.Context, filters survey.FilterState) ([]service.DepartmentStat, error)
}

// Fingerprint implements the InsightService interface
func (m *MockInsightService) Fingerprint() string {
	if m.FingerprintFunc != nil {
		return m.FingerprintFunc()
	}
	return "mock"
}

// TeamRanking implements the InsightService interface
func (m *MockInsightService) TeamRanking(ctx context.Context, filters survey.FilterState) ([]service.RankingGroup, error) {
	if m.TeamRankingFunc != nil {
		return m.TeamRankingFunc(ctx, filters)
	}
	return nil, errors.New("TeamRankingFunc not implemented")
}

// SentimentDistribution implements the InsightService interface
func (m *MockInsightService) SentimentDistribution(ctx context.Context, filters survey.FilterState) ([]service.SentimentCount, error) {
	if m.SentimentDistributionFunc != nil {
		return m.SentimentDistributionFunc(ctx, filters)
	}
	return nil, errors.New("SentimentDistributionFunc not implemented")
}

// KeywordFrequency implements the InsightService interface
func (m *MockInsightService) KeywordFrequency(ctx context.Context, filters survey.FilterState, n int) ([]service.KeywordCount, error) {
	if m.KeywordFrequencyFunc != nil {
		return m.KeywordFrequencyFunc(ctx, filters, n)
	}
	return nil, errors.New("KeywordFrequencyFunc not implemented")
}

// DepartmentStats implements the InsightService interface
func (m *MockInsightService) DepartmentStats(ctx context.Context, filters survey.FilterState) ([]service.DepartmentStat, error) {
	if m.DepartmentStatsFunc != nil {
		return m.DepartmentStatsFunc(ctx, filters)
	}
	return nil, errors.New("DepartmentStatsFunc not implemented")
}
