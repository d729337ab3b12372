package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/errors"
)

// AdminOnly restricts access to users whose live user record carries the
// ADMIN role. The role is re-read from the database on every call rather
// than trusted from the token, so revoking admin takes effect immediately.
// Rejections are rendered by the AppError middleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userId")
		if !exists {
			c.Error(errors.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID.(string)).Error; err != nil {
			c.Error(errors.Unauthorized("User not found"))
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			c.Error(errors.Forbidden("Admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
