package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// -- Inputs --

type RespondToRequestInput struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"adminResponse" binding:"required"`
	AdminNotes    string `json:"adminNotes"`
}

type PublishFromRequestInput struct {
	Title       string   `json:"title" binding:"required"`
	TechStack   string   `json:"techStack" binding:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags"`
}

// adminRequestView widens the requester-facing serialization with the
// internal notes column, which only admins may read.
type adminRequestView struct {
	models.RuleRequest
	AdminNotes string `json:"adminNotes"`
}

func toAdminView(r models.RuleRequest) adminRequestView {
	return adminRequestView{RuleRequest: r, AdminNotes: r.AdminNotes}
}

// -- Handlers --

// AdminListRequests handles GET /admin/requests with optional status and
// techStack filters.
func AdminListRequests(c *gin.Context) {
	query := database.DB.Model(&models.RuleRequest{})

	status := c.Query("status")
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	techStack := c.Query("techStack")
	if techStack != "" && techStack != "all" {
		query = query.Where("tech_stack = ?", techStack)
	}

	var requests []models.RuleRequest
	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	views := make([]adminRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, toAdminView(r))
	}

	c.JSON(http.StatusOK, gin.H{"requests": views})
}

// AdminGetRequest handles GET /admin/requests/:id
func AdminGetRequest(c *gin.Context) {
	id := c.Param("id")

	var request models.RuleRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": toAdminView(request)})
}

// RespondToRequest handles POST /admin/requests/:id/respond. Any non-initial
// status may be set, including over a previous decision: re-responding is
// how admins correct mistakes.
func RespondToRequest(c *gin.Context) {
	id := c.Param("id")
	adminID, _ := c.Get("userId")

	var input RespondToRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.RequestStatus(input.Status)
	if !models.ValidResponseStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be APPROVED, REJECTED, or CHANGES_REQUESTED"})
		return
	}
	if strings.TrimSpace(input.AdminResponse) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Response is required"})
		return
	}

	var request models.RuleRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	now := time.Now()
	reviewer := adminID.(string)
	request.Status = status
	request.AdminResponse = input.AdminResponse
	request.AdminNotes = input.AdminNotes
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &now

	if err := database.DB.Save(&request).Error; err != nil {
		logger.Error().Err(err).Str("request_id", id).Msg("Failed to respond to request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to request"})
		return
	}

	notifyRequestResponse(&request, reviewer)
	recordAdminAction(c, reviewer, models.ActionRespondRequest, "request", id, map[string]string{
		"status": string(status),
	})

	logger.Info().
		Str("request_id", id).
		Str("admin_id", reviewer).
		Str("status", string(status)).
		Msg("Admin responded to rule request")

	c.JSON(http.StatusOK, gin.H{"request": toAdminView(request)})
}

// PublishRuleFromRequest handles POST /admin/requests/:id/publish. Creates
// a public rule from the admin-supplied content, then marks the request
// APPROVED with an auto-generated response. The steps are deliberately not
// wrapped in one transaction: a rule that published with a stale request
// status is recoverable by re-responding.
func PublishRuleFromRequest(c *gin.Context) {
	id := c.Param("id")
	adminID, _ := c.Get("userId")
	reviewer := adminID.(string)

	var input PublishFromRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateRuleFields(input.Title, input.TechStack, input.Description, input.Content); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var request models.RuleRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	// Requester rows can predate a full profile; make sure one exists
	// before attaching rule ownership.
	requester := models.User{
		ID:    request.UserID,
		Email: fmt.Sprintf("user-%s@placeholder.local", request.UserID),
	}
	if err := database.DB.Where("id = ?", request.UserID).FirstOrCreate(&requester).Error; err != nil {
		logger.Error().Err(err).Str("user_id", request.UserID).Msg("Failed to upsert requester")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	rule := models.CursorRule{
		ID:          utils.GenerateID(),
		Title:       input.Title,
		TechStack:   input.TechStack,
		Description: input.Description,
		Content:     input.Content,
		Tags:        pq.StringArray(input.Tags),
		UserID:      request.UserID,
		IsPublic:    true,
	}

	if err := database.DB.Create(&rule).Error; err != nil {
		logger.Error().Err(err).Str("request_id", id).Msg("Failed to create rule from request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	now := time.Now()
	request.Status = models.RequestApproved
	request.AdminResponse = fmt.Sprintf("Your rule has been created and published: %s", input.Title)
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &now

	if err := database.DB.Save(&request).Error; err != nil {
		// Rule exists but the request still shows its old status; an admin
		// re-respond repairs it.
		logger.Error().Err(err).Str("request_id", id).Str("rule_id", rule.ID).Msg("Rule created but request update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rule created but request update failed", "ruleId": rule.ID})
		return
	}

	notifyRulePublished(&request, &rule, reviewer)
	recordAdminAction(c, reviewer, models.ActionPublishRule, "request", id, map[string]string{
		"ruleId": rule.ID,
		"title":  rule.Title,
	})

	logger.Info().
		Str("request_id", id).
		Str("rule_id", rule.ID).
		Str("admin_id", reviewer).
		Msg("Published rule from request")

	c.JSON(http.StatusCreated, gin.H{
		"rule":    rule,
		"ruleId":  rule.ID,
		"request": toAdminView(request),
	})
}

// -- Helpers --

func notifyRequestResponse(request *models.RuleRequest, actorID string) {
	notification := models.Notification{
		UserID:    request.UserID,
		ActorID:   actorID,
		Type:      models.NotificationTypeRequestResponse,
		RequestID: &request.ID,
		Message:   fmt.Sprintf("An admin responded to your request \"%s\"", request.Title),
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Warn().Err(err).Str("request_id", request.ID).Msg("Failed to create request notification")
	}
}

func notifyRulePublished(request *models.RuleRequest, rule *models.CursorRule, actorID string) {
	notification := models.Notification{
		UserID:    request.UserID,
		ActorID:   actorID,
		Type:      models.NotificationTypeRulePublished,
		RuleID:    &rule.ID,
		RequestID: &request.ID,
		Message:   fmt.Sprintf("Your requested rule \"%s\" has been published", rule.Title),
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Warn().Err(err).Str("rule_id", rule.ID).Msg("Failed to create publish notification")
	}
}

func recordAdminAction(c *gin.Context, adminID string, action models.ActionType, entityType, entityID string, metadata map[string]string) {
	meta, _ := json.Marshal(metadata)
	entry := models.AdminAuditLog{
		AdminID:    adminID,
		ActionType: action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   string(meta),
		IPAddress:  c.ClientIP(),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		logger.Warn().Err(err).Str("action", string(action)).Msg("Failed to write audit log entry")
	}
}
