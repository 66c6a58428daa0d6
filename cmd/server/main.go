package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-gap-service/internal/cache"
	"github.com/SAP-F-2025/learning-gap-service/internal/config"
	"github.com/SAP-F-2025/learning-gap-service/internal/handlers"
	"github.com/SAP-F-2025/learning-gap-service/internal/ingestion"
	"github.com/SAP-F-2025/learning-gap-service/internal/repositories"
	"github.com/SAP-F-2025/learning-gap-service/internal/resources"
	"github.com/SAP-F-2025/learning-gap-service/internal/services"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
	"github.com/SAP-F-2025/learning-gap-service/internal/validator"
	"github.com/SAP-F-2025/learning-gap-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var appLogger utils.Logger
	if cfg.Environment == "development" {
		appLogger = utils.NewDevelopmentLogger()
		gin.SetMode(gin.DebugMode)
	} else {
		appLogger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	}
	logger := utils.ToSlogLogger(appLogger)

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Redis is optional; without it the fleet summary is recomputed on
	// every request.
	var cacheService cache.CacheService
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	v := validator.New()
	repo := repositories.NewDatasetRepository()
	loader := ingestion.NewLoader(logger)
	resolver := resources.NewResolver(cfg.WebsiteLinksFile, cfg.YouTubeLinksFile, logger)

	detector := services.NewGapDetector(cfg.Detection, logger)
	recommendationService := services.NewRecommendationService(resolver, logger)
	analysisService := services.NewAnalysisService(repo, detector, recommendationService, publisher, logger)
	fleetService := services.NewFleetService(repo, detector, publisher, cacheService, logger)
	datasetService := services.NewDatasetService(loader, v, repo, fleetService, logger)
	reportService := services.NewReportService(analysisService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(appLogger))

	handlerManager := handlers.NewHandlerManager(
		datasetService, analysisService, fleetService, reportService, appLogger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting learning gap service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
