package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/collab-dashboard/internal/loader"
	"github.com/godilite/collab-dashboard/internal/metrics"
	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/service/mocks"
	"github.com/godilite/collab-dashboard/internal/survey"
)

func loadedRouter(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(loader.NewSampleSource(), zaptest.NewLogger(t))
	require.NoError(t, svc.Load(context.Background()))
	return NewHandler(svc, zaptest.NewLogger(t), opts...).Router()
}

func do(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type snapshotBody struct {
	Filters  survey.FilterState       `json:"filters"`
	Overview service.HospitalOverview `json:"overview"`
	Reviews  service.ReviewListing    `json:"reviews"`
}

func TestHealth(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		w := do(t, loadedRouter(t), http.MethodGet, "/healthz", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("not loaded", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		svc := service.NewDashboardService(&mocks.MockBundleSource{}, zaptest.NewLogger(t))
		r := NewHandler(svc, nil).Router()

		w := do(t, r, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		w = do(t, r, http.MethodGet, "/api/v1/meta", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestMeta(t *testing.T) {
	w := do(t, loadedRouter(t), http.MethodGet, "/api/v1/meta", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var meta MetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, 70, meta.Records)
	assert.Equal(t, []string{survey.All, "2022년", "2023년", "2024년", "2025년"}, meta.Years)
	assert.Contains(t, meta.Divisions, "간호부문")
	assert.Equal(t, survey.All, meta.Divisions[0])
	assert.Equal(t, []string{survey.All, "positive", "neutral", "negative"}, meta.Sentiments)
	assert.NotEmpty(t, meta.Fingerprint)
}

func TestSnapshot(t *testing.T) {
	r := loadedRouter(t)

	t.Run("post with filters", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/snapshot", SnapshotRequest{Year: "2025년", Reviews: []string{"negative"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var snap snapshotBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, "2025년", snap.Filters.Year)
		assert.Equal(t, survey.All, snap.Filters.Division)
		assert.Equal(t, 28, snap.Overview.Scores.Count)
		assert.Equal(t, []string{"negative"}, snap.Reviews.Selection.Labels())
		for _, rv := range snap.Reviews.Reviews {
			assert.Equal(t, "2025년", rv.Period)
			assert.Equal(t, survey.Negative, rv.Sentiment)
		}
	})

	t.Run("get with query", func(t *testing.T) {
		q := url.Values{}
		q.Set("division", "간호부문")
		q.Add("sentiment", "positive")
		q.Add("sentiment", "neutral")
		w := do(t, r, http.MethodGet, "/api/v1/snapshot?"+q.Encode(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var snap snapshotBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, "간호부문", snap.Filters.Division)
		assert.Equal(t, []string{"positive", "neutral"}, snap.Filters.Sentiment.Labels())
	})

	t.Run("empty body means defaults", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/snapshot", map[string]any{})
		require.Equal(t, http.StatusOK, w.Code)

		var snap snapshotBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, survey.DefaultFilters(), snap.Filters)
		assert.Equal(t, 70, snap.Overview.Scores.Count)
	})

	t.Run("invalid sentiment", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/snapshot", SnapshotRequest{Sentiment: []string{"furious"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConsistency(t *testing.T) {
	w := do(t, loadedRouter(t), http.MethodGet, "/api/v1/consistency", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tolerance       float64                 `json:"tolerance"`
		Inconsistencies []service.Inconsistency `json:"inconsistencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.DefaultConsistencyTolerance, body.Tolerance)
	assert.NotNil(t, body.Inconsistencies)
}

func TestMetricsRouteAndObserver(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	var routes []string
	r := loadedRouter(t,
		WithMetricsHandler(m.Handler()),
		WithRequestObserver(func(route, code string, took time.Duration) {
			routes = append(routes, route+" "+code)
			m.ObserveRequest("http", route, code, took)
		}))

	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/meta", nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/nope", nil).Code)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "collab_dashboard_requests_total")

	assert.Equal(t, []string{"/api/v1/meta OK", "unmatched Not Found", "/metrics OK"}, routes)
}
