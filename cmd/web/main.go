package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"agent-console/internal/assistant"
	"agent-console/internal/config"
	"agent-console/internal/dataset"
	"agent-console/internal/handlers"
	"agent-console/internal/insights"
	"agent-console/internal/llm"
	"agent-console/internal/middleware"
	"agent-console/internal/observability"
	"agent-console/internal/server"
	"agent-console/internal/summarizer"
	"agent-console/internal/ui/templates"
)

const (
	version              = "1.0.0"
	renderTimeout        = 10 * time.Second
	cacheMaxAge          = "public, max-age=300"
	rateLimitSweepPeriod = time.Minute
)

func dashboardHandler(data templates.DashboardData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", cacheMaxAge)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// buildHandler wires the services over store and wraps the router in the
// middleware chain.
func buildHandler(cfg *config.Config, store *dataset.Store, logger *slog.Logger, limiter *middleware.RateLimiter) http.Handler {
	var (
		sum       summarizer.Summarizer = summarizer.Unavailable{}
		completer assistant.Completer
	)
	if cfg.AI.Enabled() {
		client := llm.New(cfg.AI)
		sum = summarizer.NewAI(client)
		completer = client
		logger.Info("AI mode: enabled", "model", cfg.AI.Model)
	} else {
		logger.Info("AI mode: fallback", "reason", "OPENAI_API_KEY not set")
	}

	deps := handlers.APIDeps{
		Insights:    insights.NewService(store, sum, cfg.AI.SummarizerTimeout, logger),
		Catalog:     store,
		Recommender: assistant.NewRecommender(store.Products(), cfg.AI.RecommendCategory, completer, logger),
		Chat:        assistant.NewChat(completer, logger),
		AIEnabled:   cfg.AI.Enabled(),
		Version:     version,
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(templates.DefaultDashboard(version, cfg.AI.Enabled())),
	}

	srv := server.NewServer(deps, logger, templateHandlers)

	middlewareChain := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"dataset_dir", cfg.Dataset.Dir,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	start := time.Now()
	store, err := dataset.Load(ctx, cfg.Dataset.Dir, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded successfully", "duration", time.Since(start))

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go rateLimiter.Cleanup(sweepCtx, rateLimitSweepPeriod)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      buildHandler(cfg, store, logger, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping rate limiter sweep")
		stopSweep()
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
