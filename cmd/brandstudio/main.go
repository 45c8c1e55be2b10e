// Package main is the entry point for the brandstudio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandstudio/internal/ai"
	"brandstudio/internal/assets"
	"brandstudio/internal/brand"
	"brandstudio/internal/cache"
	"brandstudio/internal/config"
	"brandstudio/internal/database"
	"brandstudio/internal/feedback"
	"brandstudio/internal/generation"
	"brandstudio/internal/handlers"
	"brandstudio/internal/instructions"
	"brandstudio/internal/metrics"
	"brandstudio/internal/middleware"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
	"brandstudio/internal/router"
	"brandstudio/internal/storage"
	"brandstudio/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Brand catalogue, embedded unless BRANDS_FILE overrides it.
	brands, err := brand.Load(cfg.BrandsFile)
	if err != nil {
		slog.Error("failed to load brand catalogue", "error", err)
		os.Exit(1)
	}
	slog.Info("brand catalogue loaded", "brands", brands.IDs())

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a starting document per brand (no-op for brands that have one).
	if cfg.IsDev() {
		docs := make([]models.BrandInstructions, 0, len(brands.IDs()))
		for _, id := range brands.IDs() {
			docs = append(docs, *instructions.Default(id))
		}
		if err := database.Seed(ctx, db, docs); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// General pattern merges are cached in Valkey when reachable, otherwise
	// in process.
	var patternCache patterns.Cache = cache.NewMemory()
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, using in-process pattern cache", "error", err)
	} else {
		defer valkeyClient.Close()
		patternCache = cache.NewPatternCache(valkeyClient, cache.DefaultPatternTTL)
	}

	// Connect to S3-compatible object storage (optional; uploads are
	// disabled without it).
	var (
		objects assets.ObjectStore
		images  feedback.ImageStore
	)
	storageClient, err := storage.New(storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBucket:  cfg.S3BucketPublic,
		PrivateBucket: cfg.S3BucketPrivate,
		PublicURL:     cfg.S3PublicURL,
	})
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case storageClient != nil:
		objects, images = storageClient, storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	default:
		slog.Warn("s3 storage not configured, asset uploads disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {
			APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, FastModel: cfg.OpenAIFastModel,
			ImageModel: cfg.OpenAIImageModel, SpeechModel: cfg.OpenAISpeechModel, BaseURL: cfg.OpenAIBaseURL,
		},
		"gemini": {
			APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, FastModel: cfg.GeminiFastModel,
			ImageModel: cfg.GeminiImageModel, BaseURL: cfg.GeminiBaseURL,
		},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, FastModel: cfg.ClaudeFastModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, FastModel: cfg.MistralFastModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
		"images", aiRegistry.SupportsImageGeneration(),
		"speech", aiRegistry.SupportsSpeech(),
	)

	prom := metrics.NewPrometheus()

	// Services.
	repo := instructions.NewRepository(store.NewInstructionStore(db), store.NewRevisionStore(db))
	engine := patterns.NewEngine(aiRegistry, store.NewPatternStore(db), patternCache, prom)
	approvals := feedback.NewService(feedback.Deps{
		Store:    store.NewApprovedStore(db),
		Examples: repo,
		Patterns: engine,
		Images:   images,
	})
	generator := generation.NewService(generation.Deps{
		Text:        aiRegistry,
		Images:      aiRegistry,
		Speech:      aiRegistry,
		Patterns:    engine,
		Inspiration: approvals,
		Metrics:     prom,
	})
	gateway := assets.NewGateway(store.NewAssetStore(db), objects)

	api := handlers.NewAPI(handlers.Deps{
		Brands:       brands,
		Instructions: repo,
		Patterns:     engine,
		Generator:    generator,
		Approvals:    approvals,
		Assets:       gateway,
		Moderator:    aiRegistry,
		Providers:    aiRegistry,
	})

	opts := router.Options{Observer: prom, MetricsHandler: prom.Handler()}
	if cfg.AIRateLimit > 0 {
		opts.AILimiter = middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute)
		defer opts.AILimiter.Stop()
	}
	r := router.New(api, opts)

	// WriteTimeout must accommodate generation endpoints that wait on
	// quality-tier models and on batch uploads.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
