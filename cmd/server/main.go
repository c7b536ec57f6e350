package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/chefgpt/internal/api"
	"github.com/socialchef/chefgpt/internal/config"
	"github.com/socialchef/chefgpt/internal/logger"
	"github.com/socialchef/chefgpt/internal/metrics"
	"github.com/socialchef/chefgpt/internal/ratelimit"
	"github.com/socialchef/chefgpt/internal/sentry"
	"github.com/socialchef/chefgpt/internal/services/recipe"
	"github.com/socialchef/chefgpt/internal/telemetry"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				slog.Warn("Telemetry shutdown failed", "error", err)
			}
		}()
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger)

	limiter, closeLimiter, err := newLimiter(ctx, cfg.RateLimit, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to init rate limiter: %v", err)
	}
	defer closeLimiter()

	svc := recipe.NewService(
		limiter,
		recipe.NewChatModel(cfg.Model, cfg.OpenAIKey, cfg.GroqKey),
		recipe.NewImageModel(cfg.Model, cfg.OpenAIKey),
	)
	apiServer := api.NewServer(svc)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Forwarded-For"},
		ExposedHeaders: []string{"X-Request-ID"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	apiServer.Routes(r)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port, "rate_limit_store", cfg.RateLimit.Store, "provider", cfg.Model.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// newLimiter builds the configured limiter store. The returned func releases it.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, redisURL string) (ratelimit.Limiter, func(), error) {
	limits := ratelimit.Config{Window: cfg.Window, Quota: cfg.Quota}

	switch cfg.Store {
	case "redis":
		client, err := ratelimit.NewRedisClient(ctx, redisURL)
		if err != nil {
			return nil, nil, err
		}
		return ratelimit.NewRedisLimiter(client, limits, cfg.KeyPrefix), func() { client.Close() }, nil
	default:
		limiter := ratelimit.NewMemoryLimiter(limits)
		if cfg.SweepInterval > 0 {
			go limiter.RunSweeper(ctx, cfg.SweepInterval, func(removed, remaining int) {
				slog.Debug("Swept rate limit entries", "removed", removed, "remaining", remaining)
			})
		}
		return limiter, func() {}, nil
	}
}
