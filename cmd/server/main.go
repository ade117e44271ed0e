package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/catalogfile"
	"aidengine/internal/eligibility/handler"
	"aidengine/internal/eligibility/metrics"
	"aidengine/internal/eligibility/service"
	"aidengine/internal/eligibility/store"
	"aidengine/internal/platform/config"
	"aidengine/internal/platform/health"
	"aidengine/internal/platform/logger"
	"aidengine/internal/platform/middleware"
	"aidengine/internal/platform/redis"
	"aidengine/internal/platform/tracer"
	"aidengine/pkg/platform/circuit"
	"aidengine/pkg/platform/validation"
)

const poolStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Estimation logic lives in internal/eligibility.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.IsDevelopment())

	log.Info("initializing aidengine",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"redis_enabled", cfg.Redis.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "programs", catalog.Len(), "custom", cfg.CatalogPath != "")

	healthHandler := health.New(cfg.Environment, catalog.Len)

	snapshots, closeStore, err := buildStore(ctx, cfg, log, healthHandler)
	if err != nil {
		log.Error("failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := service.New(eligibility.NewEngine(catalog),
		service.WithLogger(log),
		service.WithStore(snapshots),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithBatchLimit(cfg.BatchConcurrency),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))

	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.BodyLimit(validation.MaxBodySize))
		handler.New(svc, log).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func loadCatalog(path string) (*eligibility.Catalog, error) {
	if path == "" {
		return eligibility.DefaultCatalog(), nil
	}
	return catalogfile.Load(path)
}

// buildStore picks Redis when configured, guarded by a circuit breaker with
// process memory as fallback. Without Redis, snapshots live in memory only.
func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger, h *health.Handler) (store.Store, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("using in-memory snapshot store", "ttl", cfg.SnapshotTTL)
		return store.NewInMemoryStore(cfg.SnapshotTTL), func() {}, nil
	}

	h.RegisterCheck("redis", client.Health)
	go client.ReportPoolStats(ctx, poolStatsInterval)

	log.Info("using redis snapshot store", "ttl", cfg.SnapshotTTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}
	resilient := store.NewResilientStore(
		store.NewRedisStore(client.Client, cfg.SnapshotTTL),
		store.NewInMemoryStore(cfg.SnapshotTTL),
		circuit.New("snapshot_store"),
		log,
	)
	return resilient, closeFn, nil
}
