package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"gorm.io/gorm"
)

type registryEntry struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Description string   `json:"description"`
	TechStack   string   `json:"techStack"`
	Tags        []string `json:"tags"`
}

type registryFile struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

type registryItem struct {
	Schema      string         `json:"$schema"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	TechStack   string         `json:"techStack"`
	Tags        []string       `json:"tags"`
	Author      string         `json:"author"`
	Files       []registryFile `json:"files"`
}

// ListRegistry handles GET /registry: the machine-readable feed of public
// rules consumed by CLI installers.
func ListRegistry(c *gin.Context) {
	query := database.DB.Model(&models.CursorRule{}).Where("is_public = ?", true)

	techStack := c.Query("techStack")
	if techStack != "" {
		query = query.Where("tech_stack = ?", techStack)
	}

	var rules []models.CursorRule
	if err := query.Order("created_at desc").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registry"})
		return
	}

	entries := make([]registryEntry, 0, len(rules))
	for _, rule := range rules {
		description := rule.Description
		if description == "" {
			description = rule.Title
		}
		entries = append(entries, registryEntry{
			Name:        utils.GenerateSlug(rule.Title),
			ID:          rule.ID,
			Description: description,
			TechStack:   rule.TechStack,
			Tags:        rule.Tags,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// GetRegistryItem handles GET /registry/:id, returning a shadcn-style
// installable item with the rule file inlined.
func GetRegistryItem(c *gin.Context) {
	id := c.Param("id")

	var rule models.CursorRule
	err := database.DB.Preload("User").
		Where("id = ? AND is_public = ?", id, true).
		First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rule"})
		}
		return
	}

	description := rule.Description
	if description == "" {
		description = rule.Title
	}
	author := rule.User.Name
	if author == "" {
		author = "Unknown"
	}

	c.JSON(http.StatusOK, registryItem{
		Schema:      "https://cursorrules.com/schema.json",
		Name:        utils.GenerateSlug(rule.Title),
		Description: description,
		TechStack:   rule.TechStack,
		Tags:        rule.Tags,
		Author:      author,
		Files: []registryFile{
			{
				Type:    "cursor-rule",
				Path:    ".cursor/rules/" + strings.ToLower(rule.TechStack) + ".mdc",
				Content: rule.Content,
			},
		},
	})
}
