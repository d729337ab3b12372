package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
)

// GetDashboardMetrics handles GET /admin/dashboard
func GetDashboardMetrics(c *gin.Context) {
	var metrics models.DashboardMetrics

	database.DB.Model(&models.User{}).Count(&metrics.TotalUsers)
	database.DB.Model(&models.CursorRule{}).Count(&metrics.TotalRules)
	database.DB.Model(&models.CursorRule{}).Where("is_public = ?", true).Count(&metrics.PublicRules)
	database.DB.Model(&models.RuleRequest{}).Count(&metrics.TotalRequests)
	database.DB.Model(&models.RuleRequest{}).Where("status = ?", models.RequestPending).Count(&metrics.PendingRequests)
	database.DB.Model(&models.RuleView{}).Count(&metrics.TotalViews)
	database.DB.Model(&models.RuleCopy{}).Count(&metrics.TotalCopies)
	database.DB.Model(&models.Like{}).Count(&metrics.TotalLikes)

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// ListUsers handles GET /admin/users with simple pagination
func ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var users []models.User
	var total int64
	database.DB.Model(&models.User{}).Count(&total)

	if err := database.DB.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
	})
}

// GetSystemSettings handles GET /admin/settings
func GetSystemSettings(c *gin.Context) {
	var settings []models.SystemSettings
	if err := database.DB.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type UpdateSettingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

var knownSettingKeys = map[string]bool{
	models.SettingMaintenanceMode:  true,
	models.SettingMaintenanceETA:   true,
	models.SettingRegistrationOpen: true,
	models.SettingRulesEnabled:     true,
}

// UpdateSystemSetting handles PUT /admin/settings
func UpdateSystemSetting(c *gin.Context) {
	adminID, _ := c.Get("userId")

	var input UpdateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !knownSettingKeys[input.Key] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting key"})
		return
	}

	setting := models.SystemSettings{
		Key:       input.Key,
		Value:     input.Value,
		UpdatedBy: adminID.(string),
		UpdatedAt: time.Now(),
	}

	if err := database.DB.Save(&setting).Error; err != nil {
		logger.Error().Err(err).Str("key", input.Key).Msg("Failed to update system setting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}

	recordAdminAction(c, adminID.(string), models.ActionUpdateSettings, "system", input.Key, map[string]string{
		"value": input.Value,
	})

	logger.Info().
		Str("key", input.Key).
		Str("value", input.Value).
		Str("admin_id", adminID.(string)).
		Msg("System setting updated")

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

// ListAuditLogs handles GET /admin/audit-logs
func ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var logs []models.AdminAuditLog
	if err := database.DB.Preload("Admin").
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// AdminDeleteRule handles DELETE /admin/rules/:id for moderation takedowns.
func AdminDeleteRule(c *gin.Context) {
	id := c.Param("id")
	adminID, _ := c.Get("userId")

	var rule models.CursorRule
	if err := database.DB.First(&rule, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	if err := database.DB.Delete(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rule"})
		return
	}

	recordAdminAction(c, adminID.(string), models.ActionDeleteRule, "rule", id, map[string]string{
		"title": rule.Title,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted"})
}
