package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleCRUD(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	ownerToken := createTestUser(t, "owner", "USER")
	otherToken := createTestUser(t, "other", "USER")

	// Create
	w := performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":       "Svelte Store Patterns",
		"techStack":   "Svelte",
		"description": "Conventions for Svelte stores",
		"content":     "You are an expert in Svelte stores and reactivity",
		"tags":        []string{"svelte", "frontend"},
	}, ownerToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	rule := parseBody(t, w)["rule"].(map[string]interface{})
	ruleID := rule["id"].(string)
	assert.Equal(t, true, rule["isPublic"])

	// Validation failures
	w = performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "ab",
		"techStack": "Go",
		"content":   "You are an expert",
	}, ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "Short Content",
		"techStack": "Go",
		"content":   "short",
	}, ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Anonymous creation rejected
	w = performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "No Auth Rule",
		"techStack": "Go",
		"content":   "You are an expert in Go",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Public listing includes the rule
	w = performRequest(r, "GET", "/api/rules", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	rules := parseBody(t, w)["rules"].([]interface{})
	assert.Len(t, rules, 1)

	// Filters
	w = performRequest(r, "GET", "/api/rules?techStack=Svelte", nil, "")
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 1)
	w = performRequest(r, "GET", "/api/rules?techStack=Rust", nil, "")
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 0)
	w = performRequest(r, "GET", "/api/rules?tag=frontend", nil, "")
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 1)
	w = performRequest(r, "GET", "/api/rules?search=store", nil, "")
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 1)

	// Update by owner
	w = performRequest(r, "PUT", "/api/rules/"+ruleID, map[string]interface{}{
		"description": "Updated description",
	}, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated description", parseBody(t, w)["rule"].(map[string]interface{})["description"])

	// Update by someone else is forbidden
	w = performRequest(r, "PUT", "/api/rules/"+ruleID, map[string]interface{}{
		"description": "Hijacked",
	}, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Delete by someone else is forbidden, by owner works
	w = performRequest(r, "DELETE", "/api/rules/"+ruleID, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(r, "DELETE", "/api/rules/"+ruleID, nil, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "GET", "/api/rules/"+ruleID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateRuleVisibility(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	ownerToken := createTestUser(t, "owner", "USER")
	otherToken := createTestUser(t, "other", "USER")

	w := performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "Private Notes",
		"techStack": "Go",
		"content":   "You are an expert in internal tooling",
		"isPublic":  false,
	}, ownerToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	ruleID := parseBody(t, w)["rule"].(map[string]interface{})["id"].(string)

	// Hidden from the public listing and from other users
	w = performRequest(r, "GET", "/api/rules", nil, "")
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 0)

	w = performRequest(r, "GET", "/api/rules/"+ruleID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, "GET", "/api/rules/"+ruleID, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Owner can still read it and sees it under /rules/mine
	w = performRequest(r, "GET", "/api/rules/"+ruleID, nil, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "GET", "/api/rules/mine", nil, ownerToken)
	assert.Len(t, parseBody(t, w)["rules"].([]interface{}), 1)
}

func TestRegistryFeed(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	ownerToken := createTestUser(t, "owner", "USER")

	w := performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "React Hook Rules",
		"techStack": "React",
		"content":   "You are an expert in React hooks",
		"tags":      []string{"react"},
	}, ownerToken)
	publicRule := parseBody(t, w)["rule"].(map[string]interface{})
	publicID := publicRule["id"].(string)

	w = performRequest(r, "POST", "/api/rules", map[string]interface{}{
		"title":     "Hidden Rule",
		"techStack": "React",
		"content":   "You are an expert in secrets",
		"isPublic":  false,
	}, ownerToken)
	privateID := parseBody(t, w)["rule"].(map[string]interface{})["id"].(string)

	// Listing is a raw array of installable entries, public rules only
	w = performRequest(r, "GET", "/api/registry", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
	assert.Equal(t, "react-hook-rules", entries[0]["name"])
	assert.Equal(t, publicID, entries[0]["id"])
	// No description set, so the title stands in
	assert.Equal(t, "React Hook Rules", entries[0]["description"])

	// Item carries the schema and the inlined rule file
	w = performRequest(r, "GET", "/api/registry/"+publicID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	item := parseBody(t, w)
	assert.Equal(t, "https://cursorrules.com/schema.json", item["$schema"])
	assert.Equal(t, "react-hook-rules", item["name"])
	assert.Equal(t, "owner Test", item["author"])
	files := item["files"].([]interface{})
	assert.Len(t, files, 1)
	file := files[0].(map[string]interface{})
	assert.Equal(t, "cursor-rule", file["type"])
	assert.Equal(t, ".cursor/rules/react.mdc", file["path"])
	assert.Equal(t, "You are an expert in React hooks", file["content"])

	// Private rules are not installable
	w = performRequest(r, "GET", "/api/registry/"+privateID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTechStacksEndpoint(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	ownerToken := createTestUser(t, "owner", "USER")
	for _, stack := range []string{"Go", "React", "Go"} {
		w := performRequest(r, "POST", "/api/rules", map[string]interface{}{
			"title":     stack + " Rules Set",
			"techStack": stack,
			"content":   "You are an expert in " + stack,
		}, ownerToken)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := performRequest(r, "GET", "/api/rules/tech-stacks", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	stacks := parseBody(t, w)["techStacks"].([]interface{})
	assert.Equal(t, []interface{}{"Go", "React"}, stacks)
}
