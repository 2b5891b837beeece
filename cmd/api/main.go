package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/courselog/courselog-api/api/swagger"
	"github.com/courselog/courselog-api/internal/repository"
	"github.com/courselog/courselog-api/internal/router"
	"github.com/courselog/courselog-api/internal/service"
	"github.com/courselog/courselog-api/pkg/cache"
	"github.com/courselog/courselog-api/pkg/config"
	"github.com/courselog/courselog-api/pkg/database"
	"github.com/courselog/courselog-api/pkg/logger"
)

// @title Courselog API
// @version 1.0.0
// @description Role-based course and lesson-record service for academic departments
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Dashboards fall back to uncached reads without redis.
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	validate := validator.New()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "courselog-api",
	})
	adminService := service.NewAdminService(userRepo, logr)
	courseService := service.NewCourseService(courseRepo, cacheRepo, validate, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, userRepo, cacheRepo, validate, logr)
	lessonService := service.NewLessonService(lessonRepo, assignmentRepo, courseRepo, cacheRepo, validate, logr)
	dashboardService := service.NewDashboardService(lessonRepo, assignmentRepo, courseRepo, userRepo, cacheRepo, service.DashboardConfig{
		CacheEnabled: cfg.Dashboard.CacheEnabled,
		CacheTTL:     cfg.Dashboard.CacheTTL,
	}, logr)
	exportService := service.NewExportService(lessonRepo, logr)
	metricsService := service.NewMetricsService()

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		DB:      db,
		Auth:    authService,
		Admin:   adminService,
		Course:  courseService,
		Assign:  assignmentService,
		Lesson:  lessonService,
		Board:   dashboardService,
		Export:  exportService,
		Metrics: metricsService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
