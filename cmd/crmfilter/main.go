package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/config"
	dbRedis "github.com/kailas-cloud/crmfilter/internal/db/redis"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	logpkg "github.com/kailas-cloud/crmfilter/internal/logger"
	"github.com/kailas-cloud/crmfilter/internal/metrics"
	"github.com/kailas-cloud/crmfilter/internal/repository/index"
	savedqueryrepo "github.com/kailas-cloud/crmfilter/internal/repository/savedquery"
	searchrepo "github.com/kailas-cloud/crmfilter/internal/repository/search"
	chiTransport "github.com/kailas-cloud/crmfilter/internal/transport/chi"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	healthuc "github.com/kailas-cloud/crmfilter/internal/usecase/health"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
	"github.com/kailas-cloud/crmfilter/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting crmfilter API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register criteria metrics explicitly (no init())
	metrics.RegisterCriteriaMetrics()

	schemas := schema.Default()
	entitySchemas := make([]schema.Schema, 0, len(schemas.Entities()))
	indexNames := make([]string, 0, len(schemas.Entities()))
	for _, e := range schemas.Entities() {
		s, err := schemas.Lookup(e)
		if err != nil {
			logger.Fatal("Schema registry is inconsistent", zap.Error(err))
		}
		entitySchemas = append(entitySchemas, s)
		indexNames = append(indexNames, index.Name(cfg.Storage.KeyPrefix, e))
	}

	if *cfg.Storage.EnsureIndexes {
		mgr := index.NewManager(store, cfg.Storage.KeyPrefix, logger)
		ensure := mgr.Ensure
		if cfg.Storage.RebuildIndexes {
			ensure = mgr.Rebuild
		}
		if err := ensure(ctx, entitySchemas...); err != nil {
			logger.Fatal("Failed to ensure indexes", zap.Error(err))
		}
	}

	catalog := savedquery.DefaultCatalog()
	if path := cfg.Search.SavedQueriesFile; path != "" {
		n, err := savedqueryrepo.LoadInto(catalog, schemas, path)
		if err != nil {
			logger.Fatal("Failed to load saved queries", zap.String("file", path), zap.Error(err))
		}
		logger.Info("Saved queries loaded", zap.String("file", path), zap.Int("count", n))
	}

	principals, err := buildPrincipals(cfg.Auth.Principals)
	if err != nil {
		logger.Fatal("Invalid auth principals", zap.Error(err))
	}
	if len(principals) == 0 {
		logger.Warn("No auth principals configured, all search requests will be rejected")
	}

	// Create use case services
	criteriaBuilder := builder.New(schemas).WithLogger(logger)
	searchSvc := searchuc.New(searchrepo.New(store, cfg.Storage.KeyPrefix), schemas, catalog, criteriaBuilder)
	healthSvc := healthuc.New(store, store, indexNames...)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger).
		WithSavedQueryCounts(cfg.Search.CountSavedQueries)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.SessionMiddleware(principals))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildPrincipals maps API keys to sessions.
func buildPrincipals(cfgs []config.PrincipalConfig) (map[string]session.Session, error) {
	out := make(map[string]session.Session, len(cfgs))
	for _, p := range cfgs {
		s, err := session.New(p.AccountID, p.Username)
		if err != nil {
			return nil, fmt.Errorf("principal %q: %w", p.Username, err)
		}
		out[p.APIKey] = s
	}
	return out, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger; the session middleware adds tenant and user
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
