package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinummonkey/backoffice/pkg/api"
	"github.com/platinummonkey/backoffice/pkg/auth"
	"github.com/platinummonkey/backoffice/pkg/config"
	"github.com/platinummonkey/backoffice/pkg/guard"
	"github.com/platinummonkey/backoffice/pkg/middleware"
	"github.com/platinummonkey/backoffice/pkg/notify"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/query"
	"github.com/platinummonkey/backoffice/pkg/service"
	"github.com/platinummonkey/backoffice/pkg/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting back-office gateway")

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		fatal(logger, err, "Failed to initialize tracing")
	}

	storage := buildStorage(ctx, cfg, logger)
	store := session.NewStore(storage, logger)
	store.Load(ctx)

	// The file backend may be shared with the CLI; reload on change so a
	// login in one process shows up here.
	if fs, ok := storage.(*session.FileStorage); ok {
		stop, err := fs.Watch(func() { store.Load(context.Background()) })
		if err != nil {
			logger.WithError(err).Warn("Credential file watch unavailable")
		} else {
			defer stop()
		}
	}

	apiClient := platform.NewClient(platform.ClientConfig{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Tracing: cfg.Observability.OTelEnabled,
		Token:   func() string { return store.Snapshot().AccessToken },
		Tenant:  func() string { return store.Snapshot().TenantID },
	}, logger, metrics)

	center := notify.NewCenter(notify.DefaultDismissAfter, logger, metrics)

	queryCfg := cfg.Cache.QueryConfig()
	var manager *auth.Manager
	queryCfg.OnAuthFailure = func() {
		manager.HandleAuthFailure(context.Background())
		center.Error("Your session has expired, please sign in again")
	}
	cache := query.NewClient(queryCfg, logger, metrics)

	manager = auth.NewManager(store, apiClient, cache, auth.Config{
		AdminRoles: cfg.Auth.AdminRoles,
	}, logger, metrics)

	var scheduler *auth.RefreshScheduler
	if cfg.Auth.RefreshSchedule != "" {
		scheduler, err = auth.NewRefreshScheduler(manager, cfg.Auth.RefreshSchedule, logger)
		if err != nil {
			fatal(logger, err, "Invalid refresh schedule")
		}
		scheduler.Start()
	}

	table := buildRouteTable(cfg, logger)
	chain := guard.NewChain(table, manager, manager, cfg.Auth.LoginPath, logger, metrics)

	services := service.NewRegistry(apiClient, cache, center, logger)

	server := api.NewServer(api.Deps{
		Manager:  manager,
		Services: services,
		Notify:   center,
		Chain:    chain,
		Logger:   logger,
		Metrics:  metrics,
		Limiter:  buildLimiter(cfg, storage, logger),
	})

	mainServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.Handler(registry))
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	sm := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, mainServer, healthServer)
	if scheduler != nil {
		sm.Register(scheduler.Stop)
	}
	if shutdownTracing != nil {
		sm.Register(shutdownTracing)
	}
	sm.Register(func(context.Context) error {
		return storage.Close()
	})

	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.Infof("Gateway listening on %s", mainServer.Addr)
		if err := mainServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(logger, err, "Gateway server failed")
		}
	}()

	if err := sm.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

func fatal(logger *observability.Logger, err error, message string) {
	logger.WithError(err).Error(message)
	os.Exit(1)
}

// buildStorage selects the credential storage backend
func buildStorage(ctx context.Context, cfg *config.Config, logger *observability.Logger) session.Storage {
	switch cfg.Session.Type {
	case "file":
		fs, err := session.NewFileStorage(cfg.Session.FilePath)
		if err != nil {
			fatal(logger, err, "Failed to open credential file")
		}
		logger.Infof("Using file credential storage at %s", cfg.Session.FilePath)
		return fs
	case "redis":
		rs, err := session.NewRedisStorage(ctx, cfg.Session.RedisConfig())
		if err != nil {
			fatal(logger, err, "Failed to connect to redis")
		}
		logger.Infof("Using redis credential storage at %s", cfg.Session.RedisAddr)
		return rs
	default:
		logger.Info("Using in-memory credential storage")
		return session.NewMemoryStorage()
	}
}

// buildLimiter picks the rate-limit backend: shared counters in redis when the
// session store already runs there, per-process token buckets otherwise.
func buildLimiter(cfg *config.Config, storage session.Storage, logger *observability.Logger) api.Limiter {
	if cfg.Server.RateLimitPerMinute <= 0 {
		logger.Info("Rate limiting disabled")
		return nil
	}

	limitCfg := middleware.DefaultRateLimitConfig()
	limitCfg.RequestsPerWindow = cfg.Server.RateLimitPerMinute

	if rs, ok := storage.(*session.RedisStorage); ok {
		return middleware.NewDistributedRateLimitMiddleware(rs.Client(), limitCfg)
	}
	return middleware.NewRateLimitMiddleware(limitCfg)
}

// buildRouteTable loads the configured route file or falls back to the
// built-in table.
func buildRouteTable(cfg *config.Config, logger *observability.Logger) *guard.Table {
	if cfg.Routes.Path == "" {
		return guard.DefaultTable()
	}
	table, err := guard.LoadTable(cfg.Routes.Path)
	if err != nil {
		fatal(logger, err, "Failed to load route table")
	}
	logger.Infof("Loaded %d routes from %s", len(table.Routes()), cfg.Routes.Path)
	return table
}
