package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inkpost/docs"
	"inkpost/internal/auth"
	"inkpost/internal/cache"
	"inkpost/internal/config"
	"inkpost/internal/db"
	"inkpost/internal/events"
	"inkpost/internal/handler"
	applog "inkpost/internal/logger"
	"inkpost/internal/model"
	"inkpost/internal/repository"
	"inkpost/internal/router"
	"inkpost/internal/service"
	"inkpost/internal/summary"
)

// @title inkpost API
// @version 1.0
// @description Blog backend: posts, comments, author profiles, full-text search and AI summary drafts.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := applog.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("database init", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.Comment{}, &model.Post{}, &model.Profile{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logger.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)

	broker := events.NewBroker(cacheClient.Redis(), cfg.EventsChannel, logger.Named("events"))
	go func() {
		if err := broker.Run(ctx); err != nil {
			logger.Error("event relay stopped", zap.Error(err))
		}
	}()

	// Initialize services
	profileService := service.NewProfileService(profileRepo, cacheClient, cfg.ProfileCacheTTL)
	contentService := service.NewContentService(postRepo, commentRepo, profileService, broker, logger.Named("content"))
	drafter := summary.NewDrafter(summarizer(ctx, cfg, logger), cfg.SummaryMaxInput, logger.Named("summary"))

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize handlers
	postHandler := handler.NewPostHandler(contentService)
	profileHandler := handler.NewProfileHandler(profileService)
	summaryHandler := handler.NewSummaryHandler(drafter)
	eventHandler := handler.NewEventHandler(broker)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, logger, jwtService, postHandler, profileHandler, summaryHandler, eventHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr), zap.String("driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// summarizer returns the Gemini summarizer when an API key is configured.
func summarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) summary.Summarizer {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY not set, summary drafts disabled")
		return summary.Disabled{}
	}
	s, err := summary.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
	if err != nil {
		logger.Warn("gemini client init failed, summary drafts disabled", zap.Error(err))
		return summary.Disabled{}
	}
	return s
}
