package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/godilite/collab-dashboard/api/v1"
	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/session"
	"github.com/godilite/collab-dashboard/internal/survey"
	"github.com/godilite/collab-dashboard/pkg/cache"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
	defaultKeywordLimit  = 20
)

type CacheKeyType string

const (
	cacheKeyTeamRanking     CacheKeyType = "grpc:team_ranking"
	cacheKeySentiments      CacheKeyType = "grpc:sentiment_distribution"
	cacheKeyKeywords        CacheKeyType = "grpc:keyword_frequency"
	cacheKeyDepartmentStats CacheKeyType = "grpc:department_stats"
)

type HandlerOption func(*GRPCHandlers)

// WithFilterObserver is called with the key of every applied filter change.
func WithFilterObserver(fn func(key string)) HandlerOption {
	return func(h *GRPCHandlers) { h.onFilter = fn }
}

// WithCacheObserver is called with the outcome of every cache lookup.
func WithCacheObserver(fn func(hit bool)) HandlerOption {
	return func(h *GRPCHandlers) { h.onCache = fn }
}

type GRPCHandlers struct {
	pb.UnimplementedCollaborationDashboardServer
	insights InsightService
	sessions SessionManager
	cache    Cacher
	logger   *zap.Logger
	views    *viewCache
	cacheTTL time.Duration
	onFilter func(key string)
	onCache  func(hit bool)
}

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables caching.
func NewGRPCHandlers(insights InsightService, sessions SessionManager, c Cacher, logger *zap.Logger, ttl time.Duration, opts ...HandlerOption) *GRPCHandlers {
	if insights == nil {
		panic("nil InsightService provided to NewGRPCHandlers")
	}
	if sessions == nil {
		panic("nil SessionManager provided to NewGRPCHandlers")
	}
	if c == nil {
		c = cache.NewNop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	h := &GRPCHandlers{
		insights: insights,
		sessions: sessions,
		cache:    c,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.views = newViewCache(c, ttl, h.logger, h.onCache)
	return h
}

func decode(in *structpb.Struct, v any) error {
	if err := pb.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func requireSession(id string) error {
	if id == "" {
		return status.Error(codes.InvalidArgument, "session_id is required")
	}
	return nil
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error("encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func normalizeKey(prefix CacheKeyType, fingerprint string, filters survey.FilterState) string {
	return fmt.Sprintf("%s:%s:%s", prefix, fingerprint, filters.Key())
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		s.logger.Info("session not found", zap.String("op", op))
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, survey.ErrUnknownFilterKey),
		errors.Is(err, survey.ErrInvalidSentiment):
		s.logger.Info("invalid argument", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotLoaded), errors.Is(err, service.ErrNoRecords):
		s.logger.Warn("dataset unavailable", zap.String("op", op), zap.Error(err))
		return status.Error(codes.FailedPrecondition, "dataset not available")
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

type sessionSnapshot struct {
	SessionID string           `json:"session_id"`
	Snapshot  service.Snapshot `json:"snapshot"`
}

func (s *GRPCHandlers) CreateSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	id, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, s.handleError(ctx, pb.MethodCreateSession, err)
	}
	var snap service.Snapshot
	if err := s.sessions.With(ctx, id, func(d *service.Dashboard) error {
		snap = d.Snapshot()
		return nil
	}); err != nil {
		return nil, s.handleError(ctx, pb.MethodCreateSession, err)
	}
	return s.respond(pb.MethodCreateSession, sessionSnapshot{SessionID: id, Snapshot: snap})
}

func (s *GRPCHandlers) CloseSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireSession(req.SessionID); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(req.SessionID); err != nil {
		return nil, s.handleError(ctx, pb.MethodCloseSession, err)
	}
	return s.respond(pb.MethodCloseSession, map[string]any{"session_id": req.SessionID, "closed": true})
}

func (s *GRPCHandlers) SetFilter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.SetFilterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireSession(req.SessionID); err != nil {
		return nil, err
	}
	key, err := survey.ParseFilterKey(req.Key)
	if err != nil {
		return nil, s.handleError(ctx, pb.MethodSetFilter, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	var snap service.Snapshot
	err = s.sessions.With(ctx, req.SessionID, func(d *service.Dashboard) error {
		if err := d.Store().SetFilter(key, req.Values...); err != nil {
			return err
		}
		snap = d.Snapshot()
		return nil
	})
	if err != nil {
		return nil, s.handleError(ctx, pb.MethodSetFilter, err)
	}
	if s.onFilter != nil {
		s.onFilter(string(key))
	}
	return s.respond(pb.MethodSetFilter, sessionSnapshot{SessionID: req.SessionID, Snapshot: snap})
}

func (s *GRPCHandlers) ResetFilters(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireSession(req.SessionID); err != nil {
		return nil, err
	}

	var snap service.Snapshot
	err := s.sessions.With(ctx, req.SessionID, func(d *service.Dashboard) error {
		d.Store().ResetFilters()
		snap = d.Snapshot()
		return nil
	})
	if err != nil {
		return nil, s.handleError(ctx, pb.MethodResetFilters, err)
	}
	if s.onFilter != nil {
		s.onFilter("reset")
	}
	return s.respond(pb.MethodResetFilters, sessionSnapshot{SessionID: req.SessionID, Snapshot: snap})
}

// snapshotView reads one part of a session's current snapshot.
func (s *GRPCHandlers) snapshotView(ctx context.Context, op string, in *structpb.Struct, pick func(service.Snapshot) any) (*structpb.Struct, error) {
	var req pb.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireSession(req.SessionID); err != nil {
		return nil, err
	}

	var view any
	err := s.sessions.With(ctx, req.SessionID, func(d *service.Dashboard) error {
		view = pick(d.Snapshot())
		return nil
	})
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}
	return s.respond(op, view)
}

func (s *GRPCHandlers) GetHospitalOverview(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.snapshotView(ctx, pb.MethodGetHospitalOverview, in, func(snap service.Snapshot) any {
		return snap.Overview
	})
}

func (s *GRPCHandlers) GetDivisionComparison(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.snapshotView(ctx, pb.MethodGetDivisionComparison, in, func(snap service.Snapshot) any {
		return snap.Divisions
	})
}

func (s *GRPCHandlers) ListReviews(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.snapshotView(ctx, pb.MethodListReviews, in, func(snap service.Snapshot) any {
		return snap.Reviews
	})
}

func (s *GRPCHandlers) ToggleReviewSentiment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.ToggleSentimentRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireSession(req.SessionID); err != nil {
		return nil, err
	}

	var listing service.ReviewListing
	err := s.sessions.With(ctx, req.SessionID, func(d *service.Dashboard) error {
		var err error
		listing, err = d.ToggleReviewSentiment(req.Sentiment)
		return err
	})
	if err != nil {
		return nil, s.handleError(ctx, pb.MethodToggleReviewSentiment, err)
	}
	return s.respond(pb.MethodToggleReviewSentiment, listing)
}

// resolveFilters takes the session's filters when a session is named and
// the request's explicit filters otherwise.
func (s *GRPCHandlers) resolveFilters(ctx context.Context, req pb.InsightRequest) (survey.FilterState, error) {
	if req.SessionID != "" {
		var filters survey.FilterState
		err := s.sessions.With(ctx, req.SessionID, func(d *service.Dashboard) error {
			filters = d.Store().Filters()
			return nil
		})
		return filters, err
	}
	return FiltersFromWire(req.Filters)
}

// FiltersFromWire converts request filters into a normalized filter state.
func FiltersFromWire(f *pb.Filters) (survey.FilterState, error) {
	out := survey.DefaultFilters()
	if f == nil {
		return out, nil
	}
	sel, err := survey.NewSentimentSelection(f.Sentiment...)
	if err != nil {
		return survey.FilterState{}, err
	}
	out.Year = f.Year
	out.Division = f.Division
	out.Department = f.Department
	out.Unit = f.Unit
	out.Sentiment = sel
	return out.Normalize(), nil
}

func insightView[T any](ctx context.Context, s *GRPCHandlers, op string, in *structpb.Struct, prefix CacheKeyType, field string, fetch func(ctx context.Context, filters survey.FilterState, limit int) (T, error)) (*structpb.Struct, error) {
	var req pb.InsightRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	filters, err := s.resolveFilters(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}

	key := normalizeKey(prefix, s.insights.Fingerprint(), filters)
	if req.Limit > 0 {
		key = fmt.Sprintf("%s:%d", key, req.Limit)
	}
	result, err := readThrough(ctx, s.views, key, func(fetchCtx context.Context) (T, error) {
		return fetch(fetchCtx, filters, req.Limit)
	})
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}
	return s.respond(op, map[string]any{"filters": filters, field: result})
}

func (s *GRPCHandlers) GetTeamRanking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return insightView(ctx, s, pb.MethodGetTeamRanking, in, cacheKeyTeamRanking, "groups",
		func(ctx context.Context, f survey.FilterState, _ int) ([]service.RankingGroup, error) {
			return s.insights.TeamRanking(ctx, f)
		})
}

func (s *GRPCHandlers) GetSentimentDistribution(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return insightView(ctx, s, pb.MethodGetSentimentDistribution, in, cacheKeySentiments, "sentiments",
		func(ctx context.Context, f survey.FilterState, _ int) ([]service.SentimentCount, error) {
			return s.insights.SentimentDistribution(ctx, f)
		})
}

func (s *GRPCHandlers) GetKeywordFrequency(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return insightView(ctx, s, pb.MethodGetKeywordFrequency, in, cacheKeyKeywords, "keywords",
		func(ctx context.Context, f survey.FilterState, limit int) ([]service.KeywordCount, error) {
			if limit == 0 {
				limit = defaultKeywordLimit
			}
			return s.insights.KeywordFrequency(ctx, f, limit)
		})
}

func (s *GRPCHandlers) GetDepartmentStats(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return insightView(ctx, s, pb.MethodGetDepartmentStats, in, cacheKeyDepartmentStats, "departments",
		func(ctx context.Context, f survey.FilterState, _ int) ([]service.DepartmentStat, error) {
			return s.insights.DepartmentStats(ctx, f)
		})
}
