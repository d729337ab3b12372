package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// -- Inputs --

type CreateRuleInput struct {
	Title       string   `json:"title" binding:"required"`
	TechStack   string   `json:"techStack" binding:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

type UpdateRuleInput struct {
	Title       string   `json:"title"`
	TechStack   string   `json:"techStack"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

func validateRuleFields(title, techStack, description, content string) string {
	if len(title) < 3 || len(title) > 100 {
		return "Title must be between 3 and 100 characters"
	}
	if strings.TrimSpace(techStack) == "" {
		return "Tech stack is required"
	}
	if len(description) > 500 {
		return "Description must be at most 500 characters"
	}
	if len(content) < 10 {
		return "Content must be at least 10 characters"
	}
	return ""
}

// -- Handlers --

// ListRules handles GET /rules (public listing with filters)
func ListRules(c *gin.Context) {
	var rules []models.CursorRule
	query := database.DB.Model(&models.CursorRule{}).Preload("User").Where("is_public = ?", true)

	search := c.Query("search")
	if search != "" {
		searchLike := utils.SanitizeSearchQuery(search)
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchLike, searchLike)
	}

	techStack := c.Query("techStack")
	if techStack != "" {
		query = query.Where("tech_stack = ?", techStack)
	}

	tag := c.Query("tag")
	if tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}

	orderBy := c.Query("orderBy")
	switch orderBy {
	case "oldest":
		query = query.Order("created_at asc")
	case "popular":
		query = query.Order("view_count desc, copy_count desc")
	default:
		query = query.Order("created_at desc")
	}

	if result := query.Find(&rules); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// ListMyRules handles GET /rules/mine
func ListMyRules(c *gin.Context) {
	userID, _ := c.Get("userId")

	var rules []models.CursorRule
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// GetRule handles GET /rules/:id
func GetRule(c *gin.Context) {
	id := c.Param("id")

	var rule models.CursorRule
	if result := database.DB.Preload("User").First(&rule, "id = ?", id); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	userID, authed := c.Get("userId")

	// Private rules are visible only to their owner
	if !rule.IsPublic {
		if !authed || rule.UserID != userID.(string) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
			return
		}
	}

	database.DB.Model(&models.Like{}).Where("rule_id = ?", rule.ID).Count(&rule.LikeCount)
	if authed {
		var count int64
		database.DB.Model(&models.Like{}).Where("rule_id = ? AND user_id = ?", rule.ID, userID).Count(&count)
		rule.HasLiked = count > 0
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// CreateRule handles POST /rules
func CreateRule(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input CreateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateRuleFields(input.Title, input.TechStack, input.Description, input.Content); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	rule := models.CursorRule{
		ID:          utils.GenerateID(),
		Title:       input.Title,
		TechStack:   input.TechStack,
		Description: input.Description,
		Content:     input.Content,
		Tags:        pq.StringArray(input.Tags),
		UserID:      userID.(string),
		IsPublic:    true,
	}
	if input.IsPublic != nil {
		rule.IsPublic = *input.IsPublic
	}

	if result := database.DB.Create(&rule); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// UpdateRule handles PUT /rules/:id
func UpdateRule(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userId")

	var rule models.CursorRule
	if result := database.DB.First(&rule, "id = ?", id); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	if rule.UserID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own rules"})
		return
	}

	var input UpdateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		if len(input.Title) < 3 || len(input.Title) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be between 3 and 100 characters"})
			return
		}
		rule.Title = input.Title
	}
	if input.TechStack != "" {
		rule.TechStack = input.TechStack
	}
	if input.Description != "" {
		if len(input.Description) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be at most 500 characters"})
			return
		}
		rule.Description = input.Description
	}
	if input.Content != "" {
		if len(input.Content) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content must be at least 10 characters"})
			return
		}
		rule.Content = input.Content
	}
	if len(input.Tags) > 0 {
		rule.Tags = pq.StringArray(input.Tags)
	}
	if input.IsPublic != nil {
		rule.IsPublic = *input.IsPublic
	}

	if err := database.DB.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteRule handles DELETE /rules/:id
func DeleteRule(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userId")

	var rule models.CursorRule
	if result := database.DB.First(&rule, "id = ?", id); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	if rule.UserID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own rules"})
		return
	}

	database.DB.Delete(&rule)

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted"})
}

// GetTechStacks handles GET /rules/tech-stacks (distinct values for filters)
func GetTechStacks(c *gin.Context) {
	var stacks []string
	if err := database.DB.Model(&models.CursorRule{}).
		Where("is_public = ?", true).
		Distinct().
		Order("tech_stack asc").
		Pluck("tech_stack", &stacks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tech stacks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"techStacks": stacks})
}
