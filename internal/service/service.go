package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/store"
	"github.com/godilite/collab-dashboard/internal/survey"
)

const (
	loadTimeout = 30 * time.Second
)

var (
	ErrNoRecords      = errors.New("no evaluation records found")
	ErrStorageFailure = errors.New("storage failure")
	ErrNotLoaded      = errors.New("dataset not loaded")
)

type ServiceOption func(*DashboardService)

func WithServiceReviewLimit(n int) ServiceOption {
	return func(s *DashboardService) {
		if n > 0 {
			s.reviewLimit = n
		}
	}
}

func WithServiceBuildObserver(fn BuildObserver) ServiceOption {
	return func(s *DashboardService) {
		s.observe = fn
	}
}

// WithLoadObserver is called with the record count after every successful load.
func WithLoadObserver(fn func(records int)) ServiceOption {
	return func(s *DashboardService) {
		s.onLoad = fn
	}
}

// DashboardService loads the dataset once and hands out dashboards and
// filter-keyed insight views over it.
type DashboardService struct {
	source      BundleSource
	logger      *zap.Logger
	formatter   *Formatter
	reviewLimit int
	observe     BuildObserver
	onLoad      func(records int)

	mu          sync.RWMutex
	bundle      *survey.Bundle
	fingerprint string
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(source BundleSource, logger *zap.Logger, opts ...ServiceOption) *DashboardService {
	if source == nil {
		panic("source must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	s := &DashboardService{
		source:      source,
		logger:      logger,
		formatter:   DefaultFormatter(),
		reviewLimit: DefaultReviewLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the bundle from the source and validates it.
func (s *DashboardService) Load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	bundle, err := s.source.Load(loadCtx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if bundle == nil || (len(bundle.Records) == 0 && bundle.Aggregates.Empty()) {
		return ErrNoRecords
	}
	if err := bundle.Validate(); err != nil {
		return err
	}
	if bundle.Aggregates.Hospital == nil {
		bundle.Aggregates.Hospital = survey.NewYearlyTable()
	}
	if bundle.Aggregates.Divisions == nil {
		bundle.Aggregates.Divisions = survey.NewDivisionTable()
	}

	fp := bundle.Fingerprint()

	s.mu.Lock()
	s.bundle = bundle
	s.fingerprint = fp
	s.mu.Unlock()

	s.logger.Info("loaded dataset",
		zap.Int("records", len(bundle.Records)),
		zap.Int("years", bundle.Aggregates.Hospital.Len()),
		zap.Int("divisions", bundle.Aggregates.Divisions.Len()),
		zap.String("fingerprint", fp))
	if s.onLoad != nil {
		s.onLoad(len(bundle.Records))
	}

	for _, inc := range ConsistencyReport(bundle.Aggregates, DefaultConsistencyTolerance) {
		s.logger.Warn("composite score differs from sub-score mean",
			zap.String("scope", inc.Scope),
			zap.String("period", inc.Period),
			zap.Float64("composite", inc.Composite),
			zap.Float64("sub_score_mean", inc.SubScoreMean))
	}
	return nil
}

// Bundle returns the loaded dataset.
func (s *DashboardService) Bundle() (*survey.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle == nil {
		return nil, ErrNotLoaded
	}
	return s.bundle, nil
}

// Fingerprint identifies the loaded dataset; empty before Load.
func (s *DashboardService) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// NewDashboard creates a fresh store and dashboard over the dataset.
func (s *DashboardService) NewDashboard() (*Dashboard, error) {
	bundle, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	return s.dashboardFor(store.New(bundle)), nil
}

func (s *DashboardService) dashboardFor(st *store.Store, opts ...DashboardOption) *Dashboard {
	opts = append([]DashboardOption{
		WithFormatter(s.formatter),
		WithReviewLimit(s.reviewLimit),
		WithBuildObserver(s.observe),
	}, opts...)
	return NewDashboard(st, opts...)
}

// Snapshot builds every view for filters without keeping session state. The
// store is filtered before the dashboard subscribes, so each view is built
// once.
func (s *DashboardService) Snapshot(ctx context.Context, filters survey.FilterState, reviews survey.SentimentSelection) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	bundle, err := s.Bundle()
	if err != nil {
		return Snapshot{}, err
	}
	st := store.New(bundle)
	st.SetFilters(filters)

	d := s.dashboardFor(st, WithReviewSelection(reviews))
	defer d.Close()
	return d.Snapshot(), nil
}

// TeamRanking ranks departments over the records passing filters.
func (s *DashboardService) TeamRanking(ctx context.Context, filters survey.FilterState) ([]RankingGroup, error) {
	records, err := s.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	return TeamRanking(records), nil
}

func (s *DashboardService) SentimentDistribution(ctx context.Context, filters survey.FilterState) ([]SentimentCount, error) {
	records, err := s.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	return SentimentDistribution(records), nil
}

func (s *DashboardService) KeywordFrequency(ctx context.Context, filters survey.FilterState, n int) ([]KeywordCount, error) {
	records, err := s.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	return KeywordFrequency(records, n), nil
}

func (s *DashboardService) DepartmentStats(ctx context.Context, filters survey.FilterState) ([]DepartmentStat, error) {
	records, err := s.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	return DepartmentStats(records), nil
}

func (s *DashboardService) filtered(ctx context.Context, filters survey.FilterState) ([]survey.EvaluationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bundle, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	return store.Filter(bundle.Records, filters.Normalize()), nil
}
