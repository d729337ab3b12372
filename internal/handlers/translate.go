package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/services"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
)

type TranslateInput struct {
	Text         string `json:"text" binding:"required"`
	SourceLocale string `json:"sourceLocale"`
	TargetLocale string `json:"targetLocale" binding:"required"`
}

type TranslateBatchInput struct {
	Texts        []string `json:"texts" binding:"required"`
	SourceLocale string   `json:"sourceLocale"`
	TargetLocale string   `json:"targetLocale" binding:"required"`
}

// TranslateText handles POST /translate
func TranslateText(c *gin.Context) {
	var input TranslateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text and targetLocale are required"})
		return
	}

	if config.AppConfig.LingoAPIKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lingo.dev API key not configured"})
		return
	}

	sourceLocale := input.SourceLocale
	if sourceLocale == "" {
		sourceLocale = "en"
	}

	translated, err := services.TranslateText(input.Text, sourceLocale, input.TargetLocale)
	if err != nil {
		logger.Error().Err(err).Str("target", input.TargetLocale).Msg("Translation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to translate text"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"translatedText": translated})
}

// TranslateBatch handles POST /translate/batch. Items that fail to
// translate come back as their source text.
func TranslateBatch(c *gin.Context) {
	var input TranslateBatchInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Texts array and targetLocale are required"})
		return
	}

	if config.AppConfig.LingoAPIKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lingo.dev API key not configured"})
		return
	}

	sourceLocale := input.SourceLocale
	if sourceLocale == "" {
		sourceLocale = "en"
	}

	translated := services.TranslateBatch(input.Texts, sourceLocale, input.TargetLocale)

	c.JSON(http.StatusOK, gin.H{"translatedTexts": translated})
}
