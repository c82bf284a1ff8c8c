package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/handler"
	"github.com/fly8-hq/fly8-api/internal/middleware"
	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
	"github.com/fly8-hq/fly8-api/pkg/config"
	"github.com/fly8-hq/fly8-api/pkg/logger"
	corsmiddleware "github.com/fly8-hq/fly8-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fly8-hq/fly8-api/pkg/middleware/requestid"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Students      *handler.StudentHandler
	Counselors    *handler.CounselorHandler
	Agents        *handler.AgentHandler
	Admin         *handler.AdminHandler
	Notifications *handler.NotificationHandler
	Catalog       *handler.CatalogHandler
	Events        *handler.EventsHandler
}

// New assembles the gin engine with all routes mounted under the configured
// API prefix.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	api.GET("/services", h.Catalog.Services)
	api.POST("/services/init", h.Catalog.InitServices)
	api.GET("/universities", h.Catalog.Universities)
	api.POST("/universities", middleware.JWT(auth), middleware.RequireRoles(models.RoleSuperAdmin), h.Catalog.CreateUniversity)

	students := api.Group("/students", middleware.JWT(auth), middleware.RequireRoles(models.RoleStudent))
	{
		students.POST("/onboarding", h.Students.CompleteOnboarding)
		students.GET("/profile", h.Students.Profile)
		students.POST("/apply-services", h.Students.ApplyForServices)
		students.GET("/my-applications", h.Students.MyApplications)
	}

	counselors := api.Group("/counselors", middleware.JWT(auth), middleware.RequireRoles(models.RoleCounselor))
	{
		counselors.GET("/my-students", h.Counselors.MyStudents)
		counselors.PUT("/applications/:applicationId", h.Counselors.UpdateApplication)
	}

	agents := api.Group("/agents", middleware.JWT(auth), middleware.RequireRoles(models.RoleAgent))
	{
		agents.GET("/my-students", h.Agents.MyStudents)
		agents.GET("/commissions", h.Agents.Commissions)
		agents.GET("/commissions/export", h.Agents.ExportCommissions)
	}

	admin := api.Group("/admin", middleware.JWT(auth), middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.GET("/metrics", h.Admin.Metrics)
		admin.GET("/students", h.Admin.Students)
		admin.GET("/counselors", h.Admin.Counselors)
		admin.GET("/agents", h.Admin.Agents)
		admin.POST("/users", h.Admin.CreateUser)
		admin.PUT("/students/:studentId/assign-counselor", h.Admin.AssignCounselor)
		admin.PUT("/students/:studentId/assign-agent", h.Admin.AssignAgent)
		admin.POST("/commissions", h.Admin.CreateCommission)
		admin.GET("/commissions", h.Admin.Commissions)
		admin.PUT("/commissions/:commissionId/approve", h.Admin.ApproveCommission)
		admin.POST("/commissions/:commissionId/payout", h.Admin.PayoutCommission)
	}

	notifications := api.Group("/notifications", middleware.JWT(auth))
	{
		notifications.GET("", h.Notifications.List)
		notifications.PUT("/mark-all-read", h.Notifications.MarkAllRead)
		notifications.PUT("/:notificationId/read", h.Notifications.MarkRead)
	}

	api.GET("/events", middleware.JWT(auth), h.Events.Stream)

	return r
}
