package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkstream/inkstream/internal/api"
	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/cache"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/events"
	"github.com/inkstream/inkstream/internal/social"
	"github.com/inkstream/inkstream/internal/summary"
	"github.com/inkstream/inkstream/pkg/config"
	"github.com/inkstream/inkstream/pkg/logging"
	"github.com/inkstream/inkstream/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Inkstream API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database and run migrations
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; a nil cache degrades all reads to the database
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without count cache", zap.Error(err))
		redisCache = nil
	}
	defer redisCache.Close()

	// Repositories
	repo := db.NewRepository(database.DB)
	follows := db.NewFollowRepository(repo)
	profiles := db.NewProfileRepository(repo)
	posts := db.NewPostRepository(repo)
	notifs := db.NewNotificationRepository(repo)
	accounts := db.NewAccountRepository(repo)

	// Services
	bus := events.NewBus()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(accounts, profiles, tokens)

	resolver := social.NewResolverChain(profiles, posts)
	notifier := social.NewNotifier(notifs, resolver, bus, 0)
	stopNotifier := notifier.Start(2)

	socialService := social.NewService(auth.ContextProvider{}, follows, resolver, notifier, redisCache)
	summarizer := summary.New(&cfg.Summary)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(api.Deps{
		Database:      database,
		Cache:         redisCache,
		Bus:           bus,
		Tokens:        tokens,
		AuthService:   authService,
		SocialService: socialService,
		Posts:         posts,
		Notifications: notifs,
		Summarizer:    summarizer,
	})
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let queued notifications flush before exiting
	if err := stopNotifier(ctx); err != nil {
		logger.Warn("Notifier shutdown incomplete", zap.Error(err))
	}

	logger.Info("Server exited")
}
