package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/dashboard", handlers.GetDashboardMetrics)
		admin.GET("/users", handlers.ListUsers)

		admin.GET("/requests", handlers.AdminListRequests)
		admin.GET("/requests/:id", handlers.AdminGetRequest)
		admin.POST("/requests/:id/respond", handlers.RespondToRequest)
		admin.POST("/requests/:id/publish", handlers.PublishRuleFromRequest)

		admin.DELETE("/rules/:id", handlers.AdminDeleteRule)

		admin.GET("/settings", handlers.GetSystemSettings)
		admin.PUT("/settings", handlers.UpdateSystemSetting)

		admin.GET("/audit-logs", handlers.ListAuditLogs)
	}
}
