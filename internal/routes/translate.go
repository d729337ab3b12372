package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterTranslateRoutes(r gin.IRouter) {
	translate := r.Group("/translate")
	translate.Use(middleware.TranslateRateLimit())
	{
		translate.POST("", handlers.TranslateText)
		translate.POST("/batch", handlers.TranslateBatch)
	}
}
