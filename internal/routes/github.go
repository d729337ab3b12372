package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
)

func RegisterGithubRoutes(r gin.IRouter) {
	github := r.Group("/github")
	github.Use(middleware.AuthMiddleware())
	{
		github.GET("/repos", handlers.ListGithubRepos)
		// Each PR creation fans out into several GitHub API calls, so it
		// gets the tightest limiter.
		github.POST("/create-pr", middleware.GithubRateLimit(), handlers.CreatePullRequest)
	}
}
