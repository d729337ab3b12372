package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", middleware.RequireRegistrationOpen(), handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/check-username", handlers.CheckUsername)

		auth.GET("/github", handlers.GithubLogin)
		auth.GET("/github/callback", handlers.GithubCallback)
	}

	me := r.Group("/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", handlers.GetMe)
	}
}
