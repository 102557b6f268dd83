package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-allocator/api/swagger"
	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-allocator/internal/middleware"
	"github.com/noah-isme/campus-allocator/internal/models"
	"github.com/noah-isme/campus-allocator/internal/repository"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/cache"
	"github.com/noah-isme/campus-allocator/pkg/config"
	"github.com/noah-isme/campus-allocator/pkg/database"
	"github.com/noah-isme/campus-allocator/pkg/export"
	"github.com/noah-isme/campus-allocator/pkg/jobs"
	"github.com/noah-isme/campus-allocator/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-allocator/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-allocator/pkg/middleware/requestid"
)

// @title Campus Allocator API
// @version 1.0.0
// @description Course seat allocation, activity scheduling, reading plans and course recommendations
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	cacheEnabled := cfg.Allocator.CacheEnabled
	var cacheRepo *repository.CacheRepository
	if cacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, result cache disabled", zap.Error(err))
			cacheEnabled = false
		}
		cacheRepo = repository.NewCacheRepository(client, logr)
	} else {
		cacheRepo = repository.NewCacheRepository(nil, logr)
	}
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Allocator.CacheTTL, logr, cacheEnabled)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: "campus-allocator",
	})

	courseRepo := repository.NewCourseRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	bookRepo := repository.NewBookRepository(db)

	allocationSvc := service.NewAllocationService(courseRepo, applicationRepo, cacheSvc, metricsSvc, validate, logr, service.AllocationConfig{
		MaxDemands: cfg.Allocator.MaxDemands,
		CacheTTL:   cfg.Allocator.CacheTTL,
	})
	scheduleSvc := service.NewActivityScheduleService(venueRepo, cacheSvc, metricsSvc, validate, logr, service.ScheduleConfig{
		MaxExhaustiveActivities: cfg.Allocator.MaxExhaustiveActivities,
		MaxSearchNodes:          cfg.Allocator.MaxSearchNodes,
		Window:                  allocator.Window{Open: cfg.Allocator.DayOpenHour, Close: cfg.Allocator.DayCloseHour},
		ViewWindow:              allocator.Window{Open: cfg.Allocator.DayOpenHour, Close: cfg.Allocator.ViewCloseHour},
		TraceSearch:             cfg.Allocator.TraceSearch,
		CacheTTL:                cfg.Allocator.CacheTTL,
	})
	planSvc := service.NewReadingPlanService(bookRepo, cacheSvc, metricsSvc, validate, logr, service.PlanConfig{
		MaxExhaustiveTasks: cfg.Allocator.MaxExhaustiveReadingTasks,
		TraceSearch:        cfg.Allocator.TraceSearch,
		CacheTTL:           cfg.Allocator.CacheTTL,
	})
	recommendationSvc := service.NewRecommendationService(courseRepo, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(allocationSvc, scheduleSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recomputeQueue := jobs.NewQueue("allocation-recompute", allocationSvc.HandleRecompute, jobs.QueueConfig{
		Workers:    cfg.Allocator.RecomputeWorkers,
		MaxRetries: cfg.Allocator.RecomputeRetries,
		RetryDelay: time.Second,
		Coalesce:   true,
		Logger:     logr,
	})
	recomputeQueue.Start(ctx)
	defer recomputeQueue.Stop()
	allocationSvc.AttachQueue(recomputeQueue)
	allocationSvc.RequestRecompute(ctx)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"cache":    cacheRepo.Ping,
	})
	allocationHandler := handler.NewAllocationHandler(allocationSvc)
	activityHandler := handler.NewActivityHandler(scheduleSvc)
	planningHandler := handler.NewPlanningHandler(planSvc, recommendationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := internalmiddleware.JWT(tokenSvc)
	adminOnly := internalmiddleware.RequireRoles(models.RoleAdmin)
	requesters := internalmiddleware.RequireRoles(models.RoleStudent, models.RoleAdmin)

	api.GET("/metrics/summary", auth, adminOnly, metricsHandler.Summary)

	allocations := api.Group("/allocations")
	allocations.POST("/preview", allocationHandler.Preview)
	allocations.GET("", auth, allocationHandler.Current)
	allocations.POST("/recompute", auth, adminOnly, allocationHandler.Recompute)
	allocations.GET("/me", auth, allocationHandler.Me)

	applications := api.Group("/applications", auth, requesters)
	applications.POST("", allocationHandler.Submit)
	applications.DELETE("/:id", allocationHandler.Withdraw)

	api.POST("/activities/schedule", activityHandler.Schedule)
	api.GET("/venues/:name/availability", activityHandler.Availability)

	api.POST("/reading-plans", planningHandler.ReadingPlan)
	api.POST("/recommendations", planningHandler.Recommend)
	api.GET("/recommendations/top", planningHandler.Top)

	api.GET("/exports/allocations", auth, adminOnly, exportHandler.Allocations)
	api.POST("/exports/timetable", exportHandler.Timetable)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db_driver", cfg.Database.Driver, "cache", cacheEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
