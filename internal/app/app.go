package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	pb "github.com/godilite/collab-dashboard/api/v1"
	"github.com/godilite/collab-dashboard/internal/config"
	handler "github.com/godilite/collab-dashboard/internal/grpc"
	"github.com/godilite/collab-dashboard/internal/httpapi"
	"github.com/godilite/collab-dashboard/internal/loader"
	"github.com/godilite/collab-dashboard/internal/metrics"
	"github.com/godilite/collab-dashboard/internal/repository"
	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/session"
	"github.com/godilite/collab-dashboard/pkg/cache"
	dbbuilder "github.com/godilite/collab-dashboard/pkg/database"
	grpcsrv "github.com/godilite/collab-dashboard/pkg/grpc/server"
)

type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      handler.Cacher
	metrics    *metrics.Metrics
	dashboards *service.DashboardService
	sessions   *session.Manager
	grpcServer *grpcsrv.Server
	httpServer *http.Server
}

// NewSource picks the dataset source named by cfg. The returned pool is
// non-nil only for the sqlite source and must be closed by the caller.
func NewSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.BundleSource, *sql.DB, error) {
	switch cfg.DataSource {
	case config.SourceSample:
		return loader.NewSampleSource(), nil, nil
	case config.SourceJSON:
		return loader.NewJSONSource(cfg.DataPath), nil, nil
	case config.SourceXLSX:
		opts := loader.DefaultXLSXOptions()
		opts.PeriodMode = cfg.PeriodMode
		opts.SplitYear = cfg.SplitYear
		return loader.NewXLSXSource(cfg.DataPath, logger.Named("xlsx"), opts), nil, nil
	case config.SourceSQLite:
		opts := append(dbbuilder.SQLiteDefaults(),
			dbbuilder.WithDriver(cfg.DBDriver),
			dbbuilder.WithDataSource(cfg.DBPath),
		)
		dbPool, err := dbbuilder.Open(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("database init failed: %w", err)
		}
		repo := repository.NewEvaluationRepository(dbPool)
		if err := repo.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("database schema: %w", err)
		}
		logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))
		return repo, dbPool, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m := metrics.NewDefault()

	source, dbPool, err := NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, logger: logger, dbPool: dbPool, metrics: m}

	dashboards := service.NewDashboardService(source, logger,
		service.WithServiceReviewLimit(cfg.ReviewLimit),
		service.WithServiceBuildObserver(m.ObserveBuild),
		service.WithLoadObserver(func(records int) {
			m.DatasetRecords.Set(float64(records))
		}),
	)
	if err := dashboards.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}
	a.dashboards = dashboards

	if cfg.CacheEnabled {
		cacheClient, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
		)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		a.cache = cacheClient
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		a.cache = cache.NewNop()
	}

	a.sessions = session.NewManager(dashboards.NewDashboard, logger,
		session.WithTTL(cfg.SessionTTL),
		session.WithObserver(m),
	)

	grpcHandlers := handler.NewGRPCHandlers(dashboards, a.sessions, a.cache, logger, cfg.CacheTTL,
		handler.WithFilterObserver(m.FilterChanged),
		handler.WithCacheObserver(m.CacheResult),
	)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithRequestObserver(func(method, code string, took time.Duration) {
			m.ObserveRequest("grpc", method, code, took)
		}),
	)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterCollaborationDashboardServer(s, grpcHandlers)
	})
	a.grpcServer = grpcServer

	if cfg.HTTPPort > 0 {
		if cfg.AppEnv == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		api := httpapi.NewHandler(dashboards, logger,
			httpapi.WithMetricsHandler(m.Handler()),
			httpapi.WithRequestObserver(func(route, code string, took time.Duration) {
				m.ObserveRequest("http", route, code, took)
			}),
		)
		a.httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           api.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// Run serves gRPC and HTTP until ctx is done, a shutdown signal arrives or a
// server fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application starting",
		zap.String("data_source", a.cfg.DataSource),
		zap.String("fingerprint", a.dashboards.Fingerprint()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.sessions.Run(gctx)
		return nil
	})
	g.Go(a.grpcServer.Serve)
	if a.httpServer != nil {
		g.Go(func() error {
			a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
			if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http serve: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	a.close()
	_ = a.logger.Sync()
	return err
}

func (a *App) shutdown() error {
	a.logger.Info("application shutting down")

	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("grpc shutdown: %w", err))
	}

	if len(errs) == 0 {
		a.logger.Info("graceful shutdown completed successfully")
	}
	return errors.Join(errs...)
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}
}
