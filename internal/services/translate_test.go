package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/stretchr/testify/assert"
)

func newLingoServer(t *testing.T, translations map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer lingo-test-key", r.Header.Get("Authorization"))

		var req lingoRequest
		json.NewDecoder(r.Body).Decode(&req)

		translated, ok := translations[req.Data["text"]]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(lingoResponse{
			Data: map[string]string{"text": translated},
		})
	}))
}

func TestTranslateText(t *testing.T) {
	server := newLingoServer(t, map[string]string{
		"Hello world": "Hola mundo",
	})
	defer server.Close()

	config.AppConfig = &config.Config{
		LingoAPIKey: "lingo-test-key",
		LingoAPIURL: server.URL,
	}

	translated, err := TranslateText("Hello world", "en", "es")
	assert.NoError(t, err)
	assert.Equal(t, "Hola mundo", translated)
}

func TestTranslateTextWithoutKey(t *testing.T) {
	config.AppConfig = &config.Config{}

	_, err := TranslateText("Hello", "en", "es")
	assert.Error(t, err)
}

func TestTranslateTextEmptyInputPassesThrough(t *testing.T) {
	config.AppConfig = &config.Config{LingoAPIKey: "lingo-test-key"}

	translated, err := TranslateText("   ", "en", "es")
	assert.NoError(t, err)
	assert.Equal(t, "   ", translated)
}

func TestTranslateBatchFallsBackPerItem(t *testing.T) {
	server := newLingoServer(t, map[string]string{
		"Hello": "Hola",
		"World": "Mundo",
		// "Broken" is missing, so the engine rejects it
	})
	defer server.Close()

	config.AppConfig = &config.Config{
		LingoAPIKey: "lingo-test-key",
		LingoAPIURL: server.URL,
	}

	results := TranslateBatch([]string{"Hello", "Broken", "World", ""}, "en", "es")

	assert.Equal(t, []string{"Hola", "Broken", "Mundo", ""}, results)
}
