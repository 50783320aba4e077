package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seele/swipefeed/internal/api"
	"github.com/seele/swipefeed/internal/api/middleware"
	"github.com/seele/swipefeed/internal/config"
	"github.com/seele/swipefeed/internal/logger"
	"github.com/seele/swipefeed/internal/repository"
	"github.com/seele/swipefeed/internal/service"
	"github.com/seele/swipefeed/internal/source"
	"github.com/seele/swipefeed/internal/source/manyacg"
	"github.com/seele/swipefeed/internal/source/sion"
	"github.com/seele/swipefeed/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.SetDefault(logger.New(logger.LoadFromEnv()))
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	cacheRepo := repository.NewCacheRepository(db)

	// Register data sources
	registry := source.NewRegistry(cfg.Sources.Default)
	if cfg.Sources.ManyACG.Enabled {
		registry.Register(manyacg.NewAdapter(cfg.Sources.ManyACG.URL))
	}
	if cfg.Sources.Sion.Enabled {
		registry.Register(sion.NewAdapter(cfg.Sources.Sion.URL))
	}
	logger.Info("Registered sources: %v (default %s)", registry.Names(), registry.DefaultName())

	// Initialize the byte mirror when enabled
	var mirrorService *service.MirrorService
	var mirror service.ImageMirror
	if cfg.Mirror.Enabled {
		objectStorage, err := storage.New(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			logger.Error("Failed to initialize storage: %v", err)
			os.Exit(1)
		}
		if err := objectStorage.EnsureBucket(context.Background()); err != nil {
			logger.Error("Failed to ensure storage bucket: %v", err)
			os.Exit(1)
		}
		mirrorService = service.NewMirrorService(objectStorage, cfg.Mirror.Workers)
		mirror = mirrorService
		logger.Info("Image mirror enabled (bucket %s)", cfg.Storage.Bucket)
	}

	// Initialize services
	feedService := service.NewFeedService(registry, cacheRepo, &service.FeedConfig{
		LiveTotal:     cfg.Feed.LiveTotal,
		TrendingCount: cfg.Feed.TrendingCount,
		SnapshotCap:   cfg.Feed.SnapshotCap,
	})
	toggleService := service.NewToggleService(cacheRepo, feedService, mirror)
	commentService := service.NewCommentService()

	// Setup router
	router := api.SetupRouter(
		feedService,
		toggleService,
		commentService,
		registry,
		middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		cfg.Server.Mode,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server on port %d (mode %s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	// Drain pending mirror jobs before closing the database
	if mirrorService != nil {
		mirrorService.Close()
	}
	if err := repository.CloseDB(db); err != nil {
		logger.Error("Failed to close database: %v", err)
	}

	logger.Info("Server exited")
}
