//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/godilite/collab-dashboard/api/v1"
	"github.com/godilite/collab-dashboard/internal/grpc"
	"github.com/godilite/collab-dashboard/internal/loader"
	"github.com/godilite/collab-dashboard/internal/repository"
	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/session"
	"github.com/godilite/collab-dashboard/internal/survey"
	"github.com/godilite/collab-dashboard/tests/e2e/mocks"
	dbbuilder "github.com/godilite/collab-dashboard/pkg/database"
)

type harness struct {
	svc      *service.DashboardService
	sessions *session.Manager
	cache    *mocks.TrackingCache
	handler  *grpc.GRPCHandlers
}

func setup(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := dbbuilder.Open(ctx, append(dbbuilder.SQLiteDefaults(), dbbuilder.WithDataSource(":memory:"))...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewEvaluationRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	sample, err := loader.NewSampleSource().Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceRecords(ctx, sample.Records))

	logger := zap.NewNop()
	svc := service.NewDashboardService(repo, logger)
	require.NoError(t, svc.Load(ctx))

	sessions := session.NewManager(svc.NewDashboard, logger)
	cache := mocks.NewTrackingCache()
	return &harness{
		svc:      svc,
		sessions: sessions,
		cache:    cache,
		handler:  grpc.NewGRPCHandlers(svc, sessions, cache, logger, 5*time.Minute),
	}
}

func encode(t *testing.T, v any) *structpb.Struct {
	t.Helper()
	s, err := pb.Encode(v)
	require.NoError(t, err)
	return s
}

type sessionSnapshot struct {
	SessionID string           `json:"session_id"`
	Snapshot  service.Snapshot `json:"snapshot"`
}

func TestE2E_SessionMatchesStatelessSnapshot(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	out, err := h.handler.CreateSession(ctx, &structpb.Struct{})
	require.NoError(t, err)
	var created sessionSnapshot
	require.NoError(t, pb.Decode(out, &created))

	out, err = h.handler.SetFilter(ctx, encode(t, pb.SetFilterRequest{SessionID: created.SessionID, Key: "division", Values: []string{"진료부문"}}))
	require.NoError(t, err)
	out, err = h.handler.SetFilter(ctx, encode(t, pb.SetFilterRequest{SessionID: created.SessionID, Key: "year", Values: []string{"2024년"}}))
	require.NoError(t, err)
	var viaSession sessionSnapshot
	require.NoError(t, pb.Decode(out, &viaSession))

	filters := survey.DefaultFilters()
	filters.Division = "진료부문"
	filters.Year = "2024년"
	direct, err := h.svc.Snapshot(ctx, filters, survey.AllSentiments())
	require.NoError(t, err)

	assert.Equal(t, direct.Filters, viaSession.Snapshot.Filters)
	assert.Equal(t, direct.Overview.Scores.Count, viaSession.Snapshot.Overview.Scores.Count)
	assert.InDelta(t, direct.Overview.Scores.Composite, viaSession.Snapshot.Overview.Scores.Composite, 1e-9)
	assert.Equal(t, direct.Divisions.Rows[0].Label, viaSession.Snapshot.Divisions.Rows[0].Label)
	assert.Len(t, viaSession.Snapshot.Reviews.Reviews, len(direct.Reviews.Reviews))
	for _, r := range viaSession.Snapshot.Reviews.Reviews {
		assert.Equal(t, "2024년", r.Period)
	}
}

func TestE2E_SQLiteRollupsMatchComputedRollups(t *testing.T) {
	h := setup(t)

	stored, err := h.svc.Bundle()
	require.NoError(t, err)
	computed := loader.BuildAggregates(stored.Records)

	assert.Equal(t, computed.Hospital.Periods(), stored.Aggregates.Hospital.Periods())
	for _, period := range computed.Hospital.Periods() {
		want, _ := computed.Hospital.Get(period)
		got, _ := stored.Aggregates.Hospital.Get(period)
		assert.Equal(t, want.Count, got.Count, period)
		assert.InDelta(t, want.Composite, got.Composite, 1e-9, period)
		assert.InDelta(t, want.Respect, got.Respect, 1e-9, period)
	}
	assert.ElementsMatch(t, computed.Divisions.Names(), stored.Aggregates.Divisions.Names())
}

func TestE2E_InsightViewsAreCached(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	req := encode(t, pb.InsightRequest{Filters: &pb.Filters{Division: "간호부문"}, Limit: 5})

	first, err := h.handler.GetKeywordFrequency(ctx, req)
	require.NoError(t, err)
	key, ok := h.cache.WaitSet(2 * time.Second)
	require.True(t, ok, "cache was not populated")
	assert.Contains(t, key, "grpc:keyword_frequency:"+h.svc.Fingerprint())

	second, err := h.handler.GetKeywordFrequency(ctx, req)
	require.NoError(t, err)

	gets, sets, hits := h.cache.Stats()
	assert.Equal(t, 2, gets)
	assert.Equal(t, 1, sets)
	assert.Equal(t, 1, hits)
	assert.Equal(t, first.AsMap(), second.AsMap())
}

func TestE2E_RankingAndDistributionCoverFilteredRecords(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	req := encode(t, pb.InsightRequest{Filters: &pb.Filters{Year: "2025년"}})

	out, err := h.handler.GetSentimentDistribution(ctx, req)
	require.NoError(t, err)
	var dist struct {
		Sentiments []service.SentimentCount `json:"sentiments"`
	}
	require.NoError(t, pb.Decode(out, &dist))
	total := 0
	for _, s := range dist.Sentiments {
		total += s.Count
	}
	assert.Equal(t, 28, total)

	out, err = h.handler.GetTeamRanking(ctx, req)
	require.NoError(t, err)
	var ranking struct {
		Groups []service.RankingGroup `json:"groups"`
	}
	require.NoError(t, pb.Decode(out, &ranking))
	require.NotEmpty(t, ranking.Groups)
	ranked := 0
	for _, g := range ranking.Groups {
		assert.Equal(t, "2025년", g.Period)
		for _, team := range g.Teams {
			ranked += team.Count
		}
	}
	assert.Equal(t, 28, ranked)
}
