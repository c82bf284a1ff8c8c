package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/fly8-hq/fly8-api/api/swagger"
	"github.com/fly8-hq/fly8-api/internal/handler"
	"github.com/fly8-hq/fly8-api/internal/realtime"
	"github.com/fly8-hq/fly8-api/internal/repository"
	"github.com/fly8-hq/fly8-api/internal/router"
	"github.com/fly8-hq/fly8-api/internal/service"
	"github.com/fly8-hq/fly8-api/pkg/cache"
	"github.com/fly8-hq/fly8-api/pkg/config"
	"github.com/fly8-hq/fly8-api/pkg/database"
	"github.com/fly8-hq/fly8-api/pkg/logger"
)

// @title Fly8 API
// @version 1.0.0
// @description Study-abroad case management backend
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	hub := realtime.NewHub(cfg.Notifications.EventBufferSize, logr)
	hub.OnDrop(metricsSvc.CountDroppedEvent)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	auditSvc := service.NewAuditRecorder(auditRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, hub, cfg.Notifications.ListLimit, metricsSvc, logr)
	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	studentSvc := service.NewStudentService(studentRepo, userRepo, applicationRepo, notificationSvc, auditSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(studentRepo, applicationRepo, notificationSvc, auditSvc, cfg.Commissions.DefaultPercentage, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, studentRepo, userRepo, notificationSvc, auditSvc, validate, logr)
	commissionSvc := service.NewCommissionService(commissionRepo, notificationSvc, notificationSvc, auditSvc, validate, logr)
	adminSvc := service.NewAdminService(userRepo, studentRepo, applicationRepo, cacheRepo, cfg.Dashboard.CacheTTL, metricsSvc, auditSvc, validate, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, validate, logr)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Counselors:    handler.NewCounselorHandler(applicationSvc),
		Agents:        handler.NewAgentHandler(commissionSvc, applicationSvc),
		Admin:         handler.NewAdminHandler(adminSvc, assignmentSvc, commissionSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Catalog:       handler.NewCatalogHandler(catalogSvc),
		Events:        handler.NewEventsHandler(hub, metricsSvc, cfg.Notifications.HeartbeatInterval),
	}

	r := router.New(cfg, logr, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
