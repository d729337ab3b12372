package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
)

// Registry routes are unauthenticated: they feed CLI installers.
func RegisterRegistryRoutes(r gin.IRouter) {
	registry := r.Group("/registry")
	{
		registry.GET("", handlers.ListRegistry)
		registry.GET("/:id", handlers.GetRegistryItem)
	}
}
