package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/internal/services"
	apperrors "github.com/kaushal1717/vibe-helper/pkg/errors"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
)

type CreatePRInput struct {
	Owner       string `json:"owner" binding:"required"`
	Repo        string `json:"repo" binding:"required"`
	RuleID      string `json:"ruleId" binding:"required"`
	RuleContent string `json:"ruleContent" binding:"required"`
	RuleTitle   string `json:"ruleTitle" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
}

// githubClientForUser loads the user's stored OAuth token. A missing link
// or token is surfaced as 404, directing the user to connect GitHub.
// Errors go through the AppError middleware rather than direct writes.
func githubClientForUser(c *gin.Context) *services.GithubClient {
	userID, _ := c.Get("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.Error(apperrors.NotFound("GitHub account not connected. Please connect your GitHub account through your profile settings."))
		return nil
	}

	if user.GithubToken == "" {
		c.Error(apperrors.NotFound("GitHub access token not available. Please reconnect your GitHub account."))
		return nil
	}

	return services.NewGithubClient(user.GithubToken)
}

// ListGithubRepos handles GET /github/repos
func ListGithubRepos(c *gin.Context) {
	client := githubClientForUser(c)
	if client == nil {
		return
	}

	repos, err := client.ListRepositories()
	if err != nil {
		var ghErr *services.GithubError
		if errors.As(err, &ghErr) && ghErr.StatusCode == http.StatusUnauthorized {
			c.Error(apperrors.NotFound("GitHub access token not available. Please reconnect your GitHub account."))
			return
		}
		logger.Error().Err(err).Msg("Failed to fetch GitHub repositories")
		c.Error(apperrors.Internal("Failed to fetch repositories"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"repos": repos})
}

// CreatePullRequest handles POST /github/create-pr: the publish flow that
// commits a rule file into the caller's repository and opens a PR.
func CreatePullRequest(c *gin.Context) {
	var input CreatePRInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.BadRequest("Missing required fields"))
		return
	}

	if !utils.ValidRuleFileName(input.FileName) {
		c.Error(apperrors.BadRequest("Filename must end with .mdc and contain only letters, numbers, dots, underscores, and hyphens"))
		return
	}

	client := githubClientForUser(c)
	if client == nil {
		return
	}

	pr, err := client.CreatePRWithCursorRules(
		input.Owner, input.Repo,
		input.RuleContent, input.RuleTitle,
		input.RuleID, input.FileName,
	)
	if err != nil {
		var ghErr *services.GithubError
		if errors.As(err, &ghErr) {
			switch ghErr.StatusCode {
			case http.StatusNotFound:
				// Named repositories keep their message; a bare upstream
				// 404 means the token lost access entirely.
				msg := ghErr.Message
				if msg == "" || msg == "Not Found" {
					msg = "GitHub account not connected. Please connect your GitHub account first."
				}
				c.Error(apperrors.NotFound(msg))
				return
			case http.StatusUnprocessableEntity:
				c.Error(apperrors.Conflict("Branch already exists. Please try again."))
				return
			}
		}
		logger.Error().Err(err).
			Str("repo", input.Owner+"/"+input.Repo).
			Str("rule_id", input.RuleID).
			Msg("Failed to create pull request")
		c.Error(apperrors.Internal(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"prUrl":    pr.HTMLURL,
		"prNumber": pr.Number,
	})
}
