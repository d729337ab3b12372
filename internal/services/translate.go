package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
)

const LingoAPIURL = "https://engine.lingo.dev/i18n"

const translationCacheTTL = 7200 * time.Second

var translateClient = &http.Client{Timeout: 20 * time.Second}

type lingoRequest struct {
	Params struct {
		FastMode bool `json:"fast"`
	} `json:"params"`
	Locale struct {
		Source string `json:"source"`
		Target string `json:"target"`
	} `json:"locale"`
	Data map[string]string `json:"data"`
}

type lingoResponse struct {
	Data map[string]string `json:"data"`
}

func translationCacheKey(text, sourceLocale, targetLocale string) string {
	hash := sha256.Sum256([]byte(text + "|" + sourceLocale + "|" + targetLocale))
	return "translation:" + targetLocale + ":" + hex.EncodeToString(hash[:])
}

// TranslateText localizes text via the lingo.dev engine. Results are
// cached in Redis for two hours keyed on content, so repeated views of
// the same rule don't re-hit the engine.
func TranslateText(text, sourceLocale, targetLocale string) (string, error) {
	if config.AppConfig.LingoAPIKey == "" {
		return "", fmt.Errorf("lingo.dev API key not configured")
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	cacheKey := translationCacheKey(text, sourceLocale, targetLocale)
	var cached string
	if err := database.CacheGet(cacheKey, &cached); err == nil && cached != "" {
		logger.Debug().Str("target", targetLocale).Msg("Translation cache hit")
		return cached, nil
	}

	apiURL := config.AppConfig.LingoAPIURL
	if apiURL == "" {
		apiURL = LingoAPIURL
	}

	reqBody := lingoRequest{}
	reqBody.Params.FastMode = true
	reqBody.Locale.Source = sourceLocale
	reqBody.Locale.Target = targetLocale
	reqBody.Data = map[string]string{"text": text}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.AppConfig.LingoAPIKey)

	start := time.Now()
	resp, err := translateClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lingo.dev engine failed with status: %d", resp.StatusCode)
	}

	var result lingoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	translated, ok := result.Data["text"]
	if !ok {
		return "", fmt.Errorf("lingo.dev engine returned no translation")
	}

	logger.Info().
		Str("source", sourceLocale).
		Str("target", targetLocale).
		Dur("latency", time.Since(start)).
		Msg("Translated text via lingo.dev")

	if err := database.CacheSet(cacheKey, translated, translationCacheTTL); err != nil {
		logger.Debug().Err(err).Msg("Failed to cache translation")
	}

	return translated, nil
}

// TranslateBatch translates each text independently. A failed item falls
// back to its source text instead of failing the whole batch.
func TranslateBatch(texts []string, sourceLocale, targetLocale string) []string {
	results := make([]string, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = text
			continue
		}
		translated, err := TranslateText(text, sourceLocale, targetLocale)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Batch translation item failed")
			results[i] = text
			continue
		}
		results[i] = translated
	}
	return results
}
