package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/handlers"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/internal/routes"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting Vibe Helper Backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect Database
	database.Connect()
	database.InitRedis()

	// --- Database Migration Stage ---
	logger.Info().Msg("Running Database Migrations (Stage 1: Tables)...")

	// Disable foreign key constraints first to handle circular references
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = true

	tableModels := []interface{}{
		&models.User{},
		&models.CursorRule{},
		&models.RuleRequest{},
		&models.Like{},
		&models.RuleView{},
		&models.RuleCopy{},
		&models.Notification{},
		&models.SystemSettings{},
		&models.AdminAuditLog{},
	}

	for _, m := range tableModels {
		if err := database.DB.AutoMigrate(m); err != nil {
			logger.Fatal().Err(err).Msgf("Failed to migrate table for %T", m)
		}
	}

	logger.Info().Msg("Running Database Migrations (Stage 2: Constraints)...")
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := database.DB.AutoMigrate(tableModels...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to add database constraints")
	}
	logger.Info().Msg("Database Migrations Complete")

	// 3. Init OAuth
	handlers.InitOAuthConfig()

	// 4. Setup Router
	r := gin.Default()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// 5. Register Routes
	api := r.Group("/api")
	{
		// Auth stays reachable during maintenance so admins can log in
		routes.RegisterAuthRoutes(api)

		// Registry and translation are public surfaces for CLI and UI
		routes.RegisterRegistryRoutes(api)
		routes.RegisterTranslateRoutes(api)

		// Admin routes bypass the maintenance gate
		routes.RegisterAdminRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.OptionalAuthMiddleware(), middleware.MaintenanceMode())

		routes.RegisterRuleRoutes(protected)
		routes.RegisterRequestRoutes(protected)
		routes.RegisterGithubRoutes(protected)
		routes.RegisterNotificationRoutes(protected)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status":  status,
			"message": "Vibe Helper Backend is running",
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Sitemap & SEO
	r.GET("/sitemap.xml", handlers.GenerateSitemap)
	r.GET("/robots.txt", handlers.GenerateRobotsTXT)

	// 6. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
