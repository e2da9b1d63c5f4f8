// Package main is the entry point for the feed API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AmirmLotfy/skrolz/internal/api"
	"github.com/AmirmLotfy/skrolz/internal/auth"
	"github.com/AmirmLotfy/skrolz/internal/config"
	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/db"
	"github.com/AmirmLotfy/skrolz/internal/feed"
	"github.com/AmirmLotfy/skrolz/internal/health"
	"github.com/AmirmLotfy/skrolz/internal/history"
	"github.com/AmirmLotfy/skrolz/internal/jobs"
	"github.com/AmirmLotfy/skrolz/internal/middleware"
	"github.com/AmirmLotfy/skrolz/internal/prefs"
	"github.com/AmirmLotfy/skrolz/internal/ranking"
	"github.com/AmirmLotfy/skrolz/internal/social"
	"github.com/AmirmLotfy/skrolz/internal/tracing"
)

const serviceName = "skrolz-feed"

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Skrolz Feed API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.OTelExporter != "",
		Environment:  cfg.Env,
		ExporterType: cfg.OTelExporter,
		OTLPEndpoint: cfg.OTelEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Content store, optionally wrapped in the Redis trending cache.
	pgStore := content.NewPostgresStore(pool, logger)
	var contentStore content.Store = pgStore
	var redisClient *redis.Client
	var trendingCache *content.TrendingCache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		trendingCache = content.NewTrendingCache(redisClient, pgStore, cfg.TrendingCacheTTL(), logger)
		contentStore = trendingCache
	}

	boosts, err := ranking.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		// LoadCalibration already fell back to defaults and logged why.
		logger.Warn("using default ranking calibration", "error", err)
	}

	registry := prometheus.NewRegistry()

	feedMetrics := feed.NewMetrics()
	if err := feedMetrics.Register(registry); err != nil {
		logger.Error("failed to register feed metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}
	jobMetrics := jobs.NewMetrics()
	if err := jobMetrics.Register(registry); err != nil {
		logger.Error("failed to register job metrics", "error", err)
		os.Exit(1)
	}

	// Background trending refresh keeps the materialized views and the
	// Redis cache warm so the request path only ever reads.
	var primer jobs.CachePrimer
	if trendingCache != nil {
		primer = trendingCache
	}
	refresher := jobs.NewTrendingRefresher(pgStore, pgStore, primer, jobMetrics, logger)
	go refresher.Run(ctx, jobs.DefaultRefreshInterval)

	ranker := feed.NewRanker(contentStore, boosts, feed.RankerConfig{
		SourceTimeout: cfg.SourceTimeout(),
		Metrics:       feedMetrics,
		Logger:        logger,
	})

	feedHandlers := api.NewFeedHandlers(
		ranker,
		social.NewPostgresGraph(pool, logger),
		prefs.NewPostgresStore(pool, logger),
		history.NewPostgresStore(pool, logger),
		logger,
	)

	healthConfig := api.HealthHandlersConfig{
		DBChecker: health.NewDBChecker(pool),
	}
	if redisClient != nil {
		healthConfig.RedisChecker = health.NewRedisChecker(redisClient)
	}
	healthHandlers := api.NewHealthHandlers(healthConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("/feed/rank", feedHandlers.RankFeed)
	mux.HandleFunc("/feed/recommendations", feedHandlers.Recommendations)
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			api.WriteError(w, r.Context(), http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"` + serviceName + `","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	jwtService := auth.NewJWTServiceWithRotation(cfg.JWTSecret, cfg.JWTPreviousSecret)
	rateLimitStore := middleware.NewInMemoryRateLimitStore()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateLimitStore.Cleanup()
		}
	}()

	// Middleware chain, outermost first. Auth sits outside the rate
	// limiter so UserKeyFunc sees the authenticated user ID and keys
	// signed-in traffic per user rather than per client IP.
	var handler http.Handler = mux
	handler = middleware.RateLimiter(rateLimitStore, middleware.DefaultGlobalLimit(), middleware.UserKeyFunc())(handler)
	handler = middleware.Auth(jwtService)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		MaxAge:           600,
	})(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	handler = middleware.Logging(logger)(handler)
	if tracerProvider.IsEnabled() {
		handler = middleware.Tracing(serviceName)(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
