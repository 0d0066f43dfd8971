package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/regionews/internal/ai"
	"github.com/bilgisen/regionews/internal/api"
	"github.com/bilgisen/regionews/internal/cache"
	"github.com/bilgisen/regionews/internal/config"
	"github.com/bilgisen/regionews/internal/feed"
	"github.com/bilgisen/regionews/internal/logger"
	"github.com/bilgisen/regionews/internal/middleware"
	"github.com/bilgisen/regionews/internal/publish"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: !cfg.IsProduction(),
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	if cfg.IsProduction() && cfg.AdminAPIKey == "" {
		log.Fatal().Msg("ADMIN_API_KEY is required in production")
	}

	// Per-region store: Redis when configured, in-memory otherwise
	var store cache.Store
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		store = redisClient
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory store")
		store = cache.NewMemoryStore(cfg.RedisPrefix, cfg.CacheTTL)
	}
	defer func() {
		log.Info().Msg("Closing store...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	// The credential-bound client is created once and passed down explicitly
	gemini := ai.NewGeminiClient(cfg.AIApiKey, cfg.AIModel, cfg.AIBaseURL, cfg.AIRequestTimeout())
	if !gemini.HasCredential() {
		log.Warn().Msg("API_KEY is not set, news requests will fail until it is configured")
	}

	news := ai.NewNewsService(gemini, ai.ServiceConfig{
		Timeout:  cfg.AIRequestTimeout(),
		Location: cfg.Location(),
	})
	feeds := feed.NewManager(news, store, cfg.RegionLockTTL, cfg.MaxConcurrency)

	var publisher *publish.Publisher
	if cfg.TelegramBotToken != "" {
		bot, err := publish.NewBot(cfg.TelegramBotToken)
		if err != nil {
			log.Error().Err(err).Msg("Telegram publishing disabled")
		} else {
			log.Info().Str("bot", bot.Self.UserName).Msg("Telegram publishing enabled")
			publisher = publish.New(bot, store, cfg.TelegramChannelID, cfg.PublishedTTL)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	handlers := api.NewHandlers(news, feeds, publisher, store, gemini.HasCredential())
	api.SetupRoutes(app, handlers, cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
