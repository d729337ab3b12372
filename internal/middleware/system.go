package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
)

func getSystemSetting(key string) string {
	var setting models.SystemSettings
	if err := database.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return ""
	}
	return setting.Value
}

// MaintenanceMode blocks non-admin traffic while the maintenance flag is set.
// Health checks and admin routes stay reachable so the flag can be cleared.
func MaintenanceMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		if getSystemSetting(models.SettingMaintenanceMode) != "true" {
			c.Next()
			return
		}

		userID, exists := c.Get("userId")
		if exists {
			var user models.User
			if err := database.DB.Where("id = ?", userID).First(&user).Error; err == nil && user.Role == models.RoleAdmin {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service under maintenance",
			"eta":   getSystemSetting(models.SettingMaintenanceETA),
		})
		c.Abort()
	}
}

// RequireRegistrationOpen rejects signups when registration is disabled.
func RequireRegistrationOpen() gin.HandlerFunc {
	return func(c *gin.Context) {
		if getSystemSetting(models.SettingRegistrationOpen) == "false" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Registration is currently closed",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRulesEnabled rejects rule mutations when rules are disabled globally.
func RequireRulesEnabled() gin.HandlerFunc {
	return func(c *gin.Context) {
		if getSystemSetting(models.SettingRulesEnabled) == "false" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Rule submissions are temporarily disabled",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
