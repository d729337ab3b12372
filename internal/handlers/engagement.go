package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"gorm.io/gorm"
)

type trackEventInput struct {
	SessionID string `json:"sessionId"`
}

// resolveIdentity returns the (userID, sessionID) pair for an engagement
// event. Authenticated users are tracked by user id; anonymous visitors by
// the session id they send. Exactly one of the two is non-nil.
func resolveIdentity(c *gin.Context) (*string, *string) {
	if userID, exists := c.Get("userId"); exists {
		uid := userID.(string)
		return &uid, nil
	}

	var input trackEventInput
	// Body is optional; anonymous callers without a session id are untracked
	_ = c.ShouldBindJSON(&input)
	if input.SessionID != "" {
		sid := input.SessionID
		return nil, &sid
	}
	return nil, nil
}

func isDuplicateKeyError(err error) bool {
	return err == gorm.ErrDuplicatedKey ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// TrackRuleView handles POST /rules/:id/view. Records at most one view per
// identity, then recomputes the denormalized view count from the event
// table so the cached value self-heals.
func TrackRuleView(c *gin.Context) {
	ruleID := c.Param("id")

	var rule models.CursorRule
	if err := database.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	userID, sessionID := resolveIdentity(c)

	isNewView := false
	if userID != nil || sessionID != nil {
		view := models.RuleView{
			ID:        utils.GenerateID(),
			RuleID:    ruleID,
			UserID:    userID,
			SessionID: sessionID,
		}
		err := database.DB.Create(&view).Error
		switch {
		case err == nil:
			isNewView = true
		case isDuplicateKeyError(err):
			// Identity already viewed this rule
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track view"})
			return
		}
	}

	var viewCount int64
	database.DB.Model(&models.RuleView{}).Where("rule_id = ?", ruleID).Count(&viewCount)
	database.DB.Model(&models.CursorRule{}).Where("id = ?", ruleID).Update("view_count", viewCount)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"viewCount": viewCount,
		"isNewView": isNewView,
	})
}

// TrackRuleCopy handles POST /rules/:id/copy, same shape as view tracking.
func TrackRuleCopy(c *gin.Context) {
	ruleID := c.Param("id")

	var rule models.CursorRule
	if err := database.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	userID, sessionID := resolveIdentity(c)

	isNewCopy := false
	if userID != nil || sessionID != nil {
		copyEvent := models.RuleCopy{
			ID:        utils.GenerateID(),
			RuleID:    ruleID,
			UserID:    userID,
			SessionID: sessionID,
		}
		err := database.DB.Create(&copyEvent).Error
		switch {
		case err == nil:
			isNewCopy = true
		case isDuplicateKeyError(err):
			// Identity already copied this rule
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track copy"})
			return
		}
	}

	var copyCount int64
	database.DB.Model(&models.RuleCopy{}).Where("rule_id = ?", ruleID).Count(&copyCount)
	database.DB.Model(&models.CursorRule{}).Where("id = ?", ruleID).Update("copy_count", copyCount)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"copyCount": copyCount,
		"isNewCopy": isNewCopy,
	})
}

// ToggleRuleLike handles POST /rules/:id/like. Auth only: likes are always
// attributed to a user, never a session.
func ToggleRuleLike(c *gin.Context) {
	ruleID := c.Param("id")
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in to like rules."})
		return
	}

	var rule models.CursorRule
	if err := database.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	liked := false
	var existing models.Like
	err := database.DB.Where("user_id = ? AND rule_id = ?", userID, ruleID).First(&existing).Error
	if err == nil {
		if err := database.DB.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
			return
		}
	} else if err == gorm.ErrRecordNotFound {
		like := models.Like{
			ID:     utils.GenerateID(),
			UserID: userID.(string),
			RuleID: ruleID,
		}
		if createErr := database.DB.Create(&like).Error; createErr != nil {
			// Concurrent double-tap: the unique index already holds a row
			if !isDuplicateKeyError(createErr) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
				return
			}
		} else {
			notifyRuleLiked(&rule, userID.(string))
		}
		liked = true
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	var likeCount int64
	database.DB.Model(&models.Like{}).Where("rule_id = ?", ruleID).Count(&likeCount)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"liked":     liked,
		"likeCount": likeCount,
	})
}

// notifyRuleLiked tells the rule owner about a new like. Self-likes stay
// silent.
func notifyRuleLiked(rule *models.CursorRule, actorID string) {
	if rule.UserID == actorID {
		return
	}
	notification := models.Notification{
		UserID:  rule.UserID,
		ActorID: actorID,
		Type:    models.NotificationTypeLike,
		RuleID:  &rule.ID,
		Message: fmt.Sprintf("Someone liked your rule \"%s\"", rule.Title),
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Warn().Err(err).Str("rule_id", rule.ID).Msg("Failed to create like notification")
	}
}

// GetRuleLikeStatus handles GET /rules/:id/like
func GetRuleLikeStatus(c *gin.Context) {
	ruleID := c.Param("id")

	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"liked": false})
		return
	}

	var count int64
	database.DB.Model(&models.Like{}).Where("user_id = ? AND rule_id = ?", userID, ruleID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"liked": count > 0})
}
