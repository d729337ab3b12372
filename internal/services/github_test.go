package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestClient(server *httptest.Server) *GithubClient {
	client := NewGithubClient("test-token")
	client.BaseURL = server.URL
	client.HTTPClient = server.Client()
	return client
}

func init() {
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{AppURL: "https://vibe-helper.test"}
	}
}

// fakeGithub records the mutations the client performs so tests can assert
// on ordering and fail-fast behavior.
type fakeGithub struct {
	defaultBranch   string
	existingBranch  string
	refsCreated     []string
	filesCommitted  []string
	prsOpened       []map[string]string
	failRepoLookup  int
	failPullCreate  int
	fileAlreadyOnPR bool
}

func (f *fakeGithub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(path, "/repos/") && strings.Count(path, "/") == 3:
			// GET /repos/{owner}/{repo}
			if f.failRepoLookup != 0 {
				w.WriteHeader(f.failRepoLookup)
				json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"default_branch": f.defaultBranch})

		case r.Method == http.MethodGet && strings.Contains(path, "/git/ref/heads/"):
			branch := path[strings.Index(path, "/git/ref/heads/")+len("/git/ref/heads/"):]
			if branch == f.defaultBranch || branch == f.existingBranch {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"ref":    "refs/heads/" + branch,
					"object": map[string]string{"sha": "abc123"},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})

		case r.Method == http.MethodPost && strings.HasSuffix(path, "/git/refs"):
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			f.refsCreated = append(f.refsCreated, payload["ref"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"ref": payload["ref"]})

		case r.Method == http.MethodGet && strings.Contains(path, "/contents/"):
			if f.fileAlreadyOnPR {
				json.NewEncoder(w).Encode(map[string]string{"sha": "filesha", "type": "file"})
				return
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})

		case r.Method == http.MethodPut && strings.Contains(path, "/contents/"):
			f.filesCommitted = append(f.filesCommitted, path[strings.Index(path, "/contents/")+len("/contents/"):])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"content": "ok"})

		case r.Method == http.MethodPost && strings.HasSuffix(path, "/pulls"):
			if f.failPullCreate != 0 {
				w.WriteHeader(f.failPullCreate)
				json.NewEncoder(w).Encode(map[string]string{"message": "Validation Failed"})
				return
			}
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			f.prsOpened = append(f.prsOpened, payload)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"number":   42,
				"html_url": "https://github.com/octo/repo/pull/42",
				"title":    payload["title"],
				"state":    "open",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		}
	}
}

func TestCreatePRWithCursorRulesFullFlow(t *testing.T) {
	fake := &fakeGithub{defaultBranch: "main"}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := newTestClient(server)

	pr, err := client.CreatePRWithCursorRules(
		"octo", "repo",
		"# Rule content here", "React Best Practices",
		"6a3f9c2d-1111-2222-3333-444455556666", "react.mdc",
	)

	assert.NoError(t, err)
	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "https://github.com/octo/repo/pull/42", pr.HTMLURL)

	// Branch name carries the 8-char rule id prefix
	assert.Len(t, fake.refsCreated, 1)
	assert.Contains(t, fake.refsCreated[0], "refs/heads/add-cursor-rules-6a3f9c2d-")

	// File landed under .cursor/rules/
	assert.Len(t, fake.filesCommitted, 1)
	assert.Equal(t, ".cursor/rules/react.mdc", fake.filesCommitted[0])

	// PR title matches the commit message, body links the file location
	assert.Len(t, fake.prsOpened, 1)
	assert.Equal(t, "Add cursor rules: React Best Practices", fake.prsOpened[0]["title"])
	assert.Contains(t, fake.prsOpened[0]["body"], ".cursor/rules/react.mdc")
	assert.Equal(t, "main", fake.prsOpened[0]["base"])
}

func TestCreateBranchFailsFastWhenBranchExists(t *testing.T) {
	fake := &fakeGithub{defaultBranch: "main", existingBranch: "add-rules-branch"}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := newTestClient(server)

	err := client.CreateBranch("octo", "repo", "add-rules-branch", "main")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// No ref was created and nothing was committed
	assert.Empty(t, fake.refsCreated)
	assert.Empty(t, fake.filesCommitted)
}

func TestCreatePRWithCursorRulesRepoNotFound(t *testing.T) {
	fake := &fakeGithub{defaultBranch: "main", failRepoLookup: http.StatusNotFound}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := newTestClient(server)

	_, err := client.CreatePRWithCursorRules(
		"octo", "missing",
		"content", "Title", "abcd1234", "rule.mdc",
	)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Repository octo/missing not found or you don't have access to it.")

	// Stays a typed 404 so handlers can map it to an HTTP 404
	var ghErr *GithubError
	assert.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusNotFound, ghErr.StatusCode)
	assert.Contains(t, ghErr.Message, "Repository octo/missing not found")
}

func TestCreatePRWithCursorRulesSurfaces422(t *testing.T) {
	fake := &fakeGithub{defaultBranch: "main", failPullCreate: http.StatusUnprocessableEntity}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := newTestClient(server)

	_, err := client.CreatePRWithCursorRules(
		"octo", "repo",
		"content", "Title", "abcd1234", "rule.mdc",
	)
	assert.Error(t, err)

	ghErr, ok := err.(*GithubError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, ghErr.StatusCode)

	// The branch and committed file are left behind; no cleanup runs
	assert.Len(t, fake.refsCreated, 1)
	assert.Len(t, fake.filesCommitted, 1)
}

func TestCreateOrUpdateRuleFileSendsShaForExistingFile(t *testing.T) {
	fake := &fakeGithub{defaultBranch: "main", fileAlreadyOnPR: true}

	var putPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewDecoder(r.Body).Decode(&putPayload)
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"content": "ok"})
			return
		}
		fake.handler()(w, r)
	}))
	defer server.Close()

	client := newTestClient(server)

	err := client.CreateOrUpdateRuleFile("octo", "repo", "feature", "rule.mdc", "content", "msg")
	assert.NoError(t, err)
	assert.Equal(t, "filesha", putPayload["sha"])
}

func TestListRepositoriesFollowsPagination(t *testing.T) {
	pagesServed := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		page := r.URL.Query().Get("page")
		repos := []map[string]interface{}{}
		if page == "1" {
			for i := 0; i < 100; i++ {
				repos = append(repos, map[string]interface{}{"id": i, "name": "repo"})
			}
		} else {
			repos = append(repos, map[string]interface{}{"id": 100, "name": "last"})
		}
		json.NewEncoder(w).Encode(repos)
	}))
	defer server.Close()

	client := newTestClient(server)

	repos, err := client.ListRepositories()
	assert.NoError(t, err)
	assert.Len(t, repos, 101)
	assert.Equal(t, 2, pagesServed)
}
