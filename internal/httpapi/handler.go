// Package httpapi serves stateless dashboard snapshots, dataset metadata and
// the Prometheus endpoint over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/survey"
)

// DashboardReader is the part of the dashboard service the HTTP surface needs.
type DashboardReader interface {
	Snapshot(ctx context.Context, filters survey.FilterState, reviews survey.SentimentSelection) (service.Snapshot, error)
	Bundle() (*survey.Bundle, error)
	Fingerprint() string
}

// RequestObserver receives the route, status and latency of each request.
type RequestObserver func(route, code string, took time.Duration)

type Option func(*Handler)

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(x *Handler) { x.metrics = h }
}

func WithRequestObserver(fn RequestObserver) Option {
	return func(x *Handler) { x.observe = fn }
}

type Handler struct {
	svc     DashboardReader
	logger  *zap.Logger
	metrics http.Handler
	observe RequestObserver
}

func NewHandler(svc DashboardReader, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger.Named("http")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the engine with recovery, access logging and every route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api/v1")
	{
		api.GET("/meta", h.Meta)
		api.GET("/snapshot", h.GetSnapshot)
		api.POST("/snapshot", h.PostSnapshot)
		api.GET("/consistency", h.Consistency)
	}
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		took := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := http.StatusText(c.Writer.Status())
		if h.observe != nil {
			h.observe(route, code, took)
		}
		h.logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", took),
			zap.String("client_ip", c.ClientIP()))
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, survey.ErrInvalidSentiment), errors.Is(err, survey.ErrUnknownFilterKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotLoaded), errors.Is(err, service.ErrNoRecords):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not available"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request canceled"})
	default:
		h.logger.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Health reports 503 until a dataset is loaded.
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if _, err := h.svc.Bundle(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "fingerprint": h.svc.Fingerprint()})
}
