package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"gorm.io/gorm"
)

type CreateRequestInput struct {
	Title       string `json:"title" binding:"required"`
	TechStack   string `json:"techStack" binding:"required"`
	Description string `json:"description"`
	RequestText string `json:"requestText" binding:"required"`
}

// CreateRequest handles POST /requests. New requests always start PENDING.
func CreateRequest(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Title) < 3 || len(input.Title) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be between 3 and 100 characters"})
		return
	}
	if strings.TrimSpace(input.TechStack) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tech stack is required"})
		return
	}
	if len(input.Description) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be less than 500 characters"})
		return
	}
	if len(input.RequestText) < 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least 20 characters describing what you need"})
		return
	}

	request := models.RuleRequest{
		ID:          utils.GenerateID(),
		Title:       input.Title,
		TechStack:   input.TechStack,
		Description: input.Description,
		RequestText: input.RequestText,
		UserID:      userID.(string),
		Status:      models.RequestPending,
	}

	if err := database.DB.Create(&request).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create rule request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": request, "requestId": request.ID})
}

// ListMyRequests handles GET /requests
func ListMyRequests(c *gin.Context) {
	userID, _ := c.Get("userId")

	var requests []models.RuleRequest
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetMyRequest handles GET /requests/:id. Requesters only ever see their
// own requests, and the model serialization omits internal admin notes.
func GetMyRequest(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userId")

	var request models.RuleRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if request.UserID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}
