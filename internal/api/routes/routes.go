package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/api/handlers"
	"github.com/benchwork/labjournal/backend/internal/api/middleware"
	"github.com/benchwork/labjournal/backend/internal/config"
	"github.com/benchwork/labjournal/backend/internal/metrics"
	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/rbac"
	"github.com/benchwork/labjournal/backend/internal/services"
)

// Register performs migrations, seeds the system roles, and wires up the
// /api/v1 surface. Every mutating route sits behind AuthMiddleware plus a
// RequirePermission gate; the handlers append the audit entry after the
// mutation succeeds.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Chemical{},
		&models.Experiment{},
		&models.AuditEntry{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := services.SeedSystemRoles(db); err != nil {
		return fmt.Errorf("seed system roles: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	checker := rbac.NewChecker(db)
	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(db, cfg)
	roleService := services.NewRoleService(db)
	userService := services.NewUserService(db, roleService)
	chemicalService := services.NewChemicalService(db)
	experimentService := services.NewExperimentService(db)
	notificationService := services.NewNotificationService(db)

	authHandler := handlers.NewAuthHandler(authService, auditService)
	roleHandler := handlers.NewRoleHandler(roleService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	chemicalHandler := handlers.NewChemicalHandler(chemicalService, auditService)
	experimentHandler := handlers.NewExperimentHandler(experimentService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)
	dashboardHandler := handlers.NewDashboardHandler(chemicalService, experimentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, auditService)
	settingsHandler := handlers.NewSettingsHandler(db, auditService)

	authMiddleware := middleware.AuthMiddleware(authService)
	perm := func(p string) gin.HandlerFunc { return middleware.RequirePermission(checker, p) }

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Roles and permissions
		protected.GET("/permissions", perm(rbac.PermManageRoles), roleHandler.ListPermissions)
		protected.GET("/roles", perm(rbac.PermManageRoles), roleHandler.List)
		protected.POST("/roles", perm(rbac.PermManageRoles), roleHandler.Create)
		protected.GET("/roles/:name", perm(rbac.PermManageRoles), roleHandler.Get)
		protected.PUT("/roles/:name", perm(rbac.PermManageRoles), roleHandler.Update)
		protected.DELETE("/roles/:name", perm(rbac.PermManageRoles), roleHandler.Delete)
		protected.GET("/roles/:name/users", perm(rbac.PermManageUsers), roleHandler.Users)

		// User administration
		protected.GET("/admin/users", perm(rbac.PermManageUsers), userHandler.List)
		protected.POST("/admin/users", perm(rbac.PermManageUsers), userHandler.Create)
		protected.GET("/admin/users/:id", perm(rbac.PermManageUsers), userHandler.Get)
		protected.PUT("/admin/users/:id", perm(rbac.PermManageUsers), userHandler.Update)
		protected.DELETE("/admin/users/:id", perm(rbac.PermManageUsers), userHandler.Delete)

		// Chemical inventory
		protected.GET("/chemicals", perm(rbac.PermReadChemicals), chemicalHandler.List)
		protected.POST("/chemicals", perm(rbac.PermWriteChemicals), chemicalHandler.Create)
		protected.GET("/chemicals/:id", perm(rbac.PermReadChemicals), chemicalHandler.Get)
		protected.PUT("/chemicals/:id", perm(rbac.PermWriteChemicals), chemicalHandler.Update)
		protected.DELETE("/chemicals/:id", perm(rbac.PermDeleteChemicals), chemicalHandler.Delete)

		// Experiments
		protected.GET("/experiments", perm(rbac.PermReadExperiments), experimentHandler.List)
		protected.POST("/experiments", perm(rbac.PermWriteExperiments), experimentHandler.Create)
		protected.GET("/experiments/chemicals/available", perm(rbac.PermReadExperiments), chemicalHandler.Available)
		protected.GET("/experiments/:id", perm(rbac.PermReadExperiments), experimentHandler.Get)
		protected.PUT("/experiments/:id", perm(rbac.PermWriteExperiments), experimentHandler.Update)
		protected.DELETE("/experiments/:id", perm(rbac.PermDeleteExperiments), experimentHandler.Delete)

		// Dashboard
		protected.GET("/dashboard/stats", perm(rbac.PermViewDashboard), dashboardHandler.Stats)

		// Audit trail
		protected.GET("/audit", perm(rbac.PermSystemAdmin), auditHandler.Query)
		protected.GET("/audit/stats", perm(rbac.PermSystemAdmin), auditHandler.Stats)

		// Notifications
		protected.GET("/notifications", perm(rbac.PermViewDashboard), notificationHandler.List)
		protected.POST("/notifications/:id/read", perm(rbac.PermViewDashboard), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", perm(rbac.PermViewDashboard), notificationHandler.MarkAllRead)
		protected.GET("/notification-providers", perm(rbac.PermSystemAdmin), notificationHandler.ListProviders)
		protected.POST("/notification-providers", perm(rbac.PermSystemAdmin), notificationHandler.CreateProvider)
		protected.DELETE("/notification-providers/:id", perm(rbac.PermSystemAdmin), notificationHandler.DeleteProvider)
		protected.POST("/notification-providers/test", perm(rbac.PermSystemAdmin), notificationHandler.TestProvider)

		// Settings
		protected.GET("/settings", perm(rbac.PermSystemAdmin), settingsHandler.GetSettings)
		protected.POST("/settings", perm(rbac.PermSystemAdmin), settingsHandler.UpdateSetting)
	}

	return nil
}
