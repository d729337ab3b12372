package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/internal/services"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// prFlowServer fakes the handful of GitHub endpoints the publish flow
// touches and records the mutations it receives.
type prFlowServer struct {
	repoMissing bool
	failPulls   bool
	refsCreated int
	filesPushed int
}

func (s *prFlowServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case r.Method == http.MethodGet && path == "/user/repos":
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": 1, "name": "repo", "full_name": "octo/repo", "default_branch": "main"},
			})

		case r.Method == http.MethodGet && strings.HasPrefix(path, "/repos/") && strings.Count(path, "/") == 3:
			if s.repoMissing {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"default_branch": "main"})

		case r.Method == http.MethodGet && strings.Contains(path, "/git/ref/heads/"):
			if strings.HasSuffix(path, "/git/ref/heads/main") {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"ref":    "refs/heads/main",
					"object": map[string]string{"sha": "abc123"},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})

		case r.Method == http.MethodPost && strings.HasSuffix(path, "/git/refs"):
			s.refsCreated++
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"ref": "ok"})

		case r.Method == http.MethodGet && strings.Contains(path, "/contents/"):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})

		case r.Method == http.MethodPut && strings.Contains(path, "/contents/"):
			s.filesPushed++
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"content": "ok"})

		case r.Method == http.MethodPost && strings.HasSuffix(path, "/pulls"):
			if s.failPulls {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]string{"message": "Validation Failed"})
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"number":   7,
				"html_url": "https://github.com/octo/repo/pull/7",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		}
	}
}

func createGithubLinkedUser(t *testing.T, prefix string) string {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:             utils.GenerateID(),
		Username:       prefix + "_user",
		Email:          prefix + "@test.com",
		Password:       string(passHash),
		Name:           prefix + " Test",
		Role:           models.RoleUser,
		GithubUsername: prefix,
		GithubToken:    "gh-test-token",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", prefix, err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func TestGithubEndpointsRequireLinkedAccount(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	token := createTestUser(t, "unlinked", "USER")

	w := performRequest(r, "GET", "/api/github/repos", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, parseBody(t, w)["error"].(string), "reconnect your GitHub account")
}

func TestCreatePullRequestFlow(t *testing.T) {
	setupTestDB(t)

	// The production limiter allows a burst of 3; this test walks every
	// branch of the endpoint, so widen it before the routes capture it.
	middleware.GithubLimiter = middleware.NewIPRateLimiter(rate.Limit(100), 100)
	r := setupRouter()

	fake := &prFlowServer{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	origBase := services.GithubAPIURL
	services.GithubAPIURL = server.URL
	defer func() { services.GithubAPIURL = origBase }()

	token := createGithubLinkedUser(t, "linked")

	validInput := func() map[string]interface{} {
		return map[string]interface{}{
			"owner":       "octo",
			"repo":        "repo",
			"ruleId":      "abcd1234-5678-90ab-cdef-001122334455",
			"ruleContent": "# Rule content",
			"ruleTitle":   "React Best Practices",
			"fileName":    "react.mdc",
		}
	}

	// Missing fields are rejected before any API call
	w := performRequest(r, "POST", "/api/github/create-pr", map[string]interface{}{
		"owner": "octo",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", parseBody(t, w)["error"])

	// So are traversal-prone file names
	badName := validInput()
	badName["fileName"] = "../evil.mdc"
	w = performRequest(r, "POST", "/api/github/create-pr", badName, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An inaccessible repository maps to 404 and names the repository
	fake.repoMissing = true
	w = performRequest(r, "POST", "/api/github/create-pr", validInput(), token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Repository octo/repo not found or you don't have access to it.", parseBody(t, w)["error"])

	// A rejected PR surfaces 422; the branch and file stay behind
	fake.repoMissing = false
	fake.failPulls = true
	w = performRequest(r, "POST", "/api/github/create-pr", validInput(), token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Branch already exists. Please try again.", parseBody(t, w)["error"])
	assert.Equal(t, 1, fake.refsCreated)
	assert.Equal(t, 1, fake.filesPushed)

	// Happy path
	fake.failPulls = false
	w = performRequest(r, "POST", "/api/github/create-pr", validInput(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	success := parseBody(t, w)
	assert.Equal(t, true, success["success"])
	assert.Equal(t, "https://github.com/octo/repo/pull/7", success["prUrl"])
	assert.Equal(t, float64(7), success["prNumber"])

	// Repo listing goes through the same stored token
	w = performRequest(r, "GET", "/api/github/repos", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	repos := parseBody(t, w)["repos"].([]interface{})
	assert.Len(t, repos, 1)
}
