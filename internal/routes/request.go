package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterRequestRoutes(r gin.IRouter) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.RequireRulesEnabled(), handlers.CreateRequest)
		requests.GET("", handlers.ListMyRequests)
		requests.GET("/:id", handlers.GetMyRequest)
	}
}
