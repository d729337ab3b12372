package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterRuleRoutes(r gin.IRouter) {
	rules := r.Group("/rules")
	{
		rules.GET("", handlers.ListRules)
		rules.GET("/tech-stacks", handlers.GetTechStacks)
		rules.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetRule)
		rules.GET("/:id/like", middleware.OptionalAuthMiddleware(), handlers.GetRuleLikeStatus)

		// Engagement tracking works for anonymous sessions too
		rules.POST("/:id/view", middleware.OptionalAuthMiddleware(), handlers.TrackRuleView)
		rules.POST("/:id/copy", middleware.OptionalAuthMiddleware(), handlers.TrackRuleCopy)

		protected := rules.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/mine", handlers.ListMyRules)
			protected.POST("/:id/like", handlers.ToggleRuleLike)

			creationEnabled := protected.Group("")
			creationEnabled.Use(middleware.RequireRulesEnabled())
			{
				creationEnabled.POST("", handlers.CreateRule)
				creationEnabled.PUT("/:id", handlers.UpdateRule)
				creationEnabled.DELETE("/:id", handlers.DeleteRule)
			}
		}
	}
}
