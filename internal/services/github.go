package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
)

// GithubAPIURL is the default API base; tests swap it for a fake server.
var GithubAPIURL = "https://api.github.com"

// GithubError carries the upstream status code so callers can map
// 404/422 to user-facing errors.
type GithubError struct {
	StatusCode int
	Message    string
}

func (e *GithubError) Error() string {
	return fmt.Sprintf("github api: %d %s", e.StatusCode, e.Message)
}

// repoNotFoundError keeps the typed 404 so handlers map it to an HTTP 404
// while naming the repository the token cannot see.
func repoNotFoundError(owner, repo string) *GithubError {
	return &GithubError{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("Repository %s/%s not found or you don't have access to it.", owner, repo),
	}
}

// GithubClient talks to the GitHub REST API on behalf of a single user.
// BaseURL is overridable for tests.
type GithubClient struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewGithubClient(token string) *GithubClient {
	return &GithubClient{
		Token:   token,
		BaseURL: GithubAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	UpdatedAt     string `json:"updated_at"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	State   string `json:"state"`
}

type refResponse struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type contentResponse struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

func (g *GithubClient) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, g.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &apiErr)
		return &GithubError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ListRepositories fetches all repos the token can access, following
// pagination until an empty page.
func (g *GithubClient) ListRepositories() ([]Repository, error) {
	var all []Repository
	for page := 1; ; page++ {
		var repos []Repository
		path := "/user/repos?per_page=100&sort=updated&page=" + strconv.Itoa(page)
		if err := g.do(http.MethodGet, path, nil, &repos); err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if len(repos) < 100 {
			break
		}
	}
	return all, nil
}

// GetDefaultBranch returns the default branch of a repository.
func (g *GithubClient) GetDefaultBranch(owner, repo string) (string, error) {
	var result struct {
		DefaultBranch string `json:"default_branch"`
	}
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := g.do(http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	return result.DefaultBranch, nil
}

// CreateBranch creates branchName from defaultBranch. Fails fast if the
// branch already exists instead of reusing it.
func (g *GithubClient) CreateBranch(owner, repo, branchName, defaultBranch string) error {
	var existing refResponse
	err := g.do(http.MethodGet, fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", owner, repo, branchName), nil, &existing)
	if err == nil {
		return fmt.Errorf("branch %s already exists", branchName)
	}
	var ghErr *GithubError
	if !errors.As(err, &ghErr) || ghErr.StatusCode != http.StatusNotFound {
		return err
	}

	var baseRef refResponse
	if err := g.do(http.MethodGet, fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", owner, repo, defaultBranch), nil, &baseRef); err != nil {
		return err
	}

	payload := map[string]string{
		"ref": "refs/heads/" + branchName,
		"sha": baseRef.Object.SHA,
	}
	return g.do(http.MethodPost, fmt.Sprintf("/repos/%s/%s/git/refs", owner, repo), payload, nil)
}

// CreateOrUpdateRuleFile writes content to .cursor/rules/<fileName> on the
// given branch. Fetches the existing blob SHA first so updates don't 409.
func (g *GithubClient) CreateOrUpdateRuleFile(owner, repo, branch, fileName, content, message string) error {
	filePath := ".cursor/rules/" + fileName

	var sha string
	var existing contentResponse
	err := g.do(http.MethodGet, fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s", owner, repo, filePath, branch), nil, &existing)
	if err == nil {
		if existing.Type == "dir" {
			return fmt.Errorf("path %s is a directory", filePath)
		}
		sha = existing.SHA
	} else {
		var ghErr *GithubError
		if !errors.As(err, &ghErr) || ghErr.StatusCode != http.StatusNotFound {
			return err
		}
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}
	return g.do(http.MethodPut, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, filePath), payload, nil)
}

// CreatePullRequest opens a PR from head into base.
func (g *GithubClient) CreatePullRequest(owner, repo, title, body, head, base string) (*PullRequest, error) {
	payload := map[string]string{
		"title": title,
		"body":  body,
		"head":  head,
		"base":  base,
	}
	var pr PullRequest
	if err := g.do(http.MethodPost, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo), payload, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreatePRWithCursorRules runs the full publish flow: resolve the default
// branch, cut a timestamped branch, commit the rule file, open the PR.
// A partial failure leaves the branch behind; no cleanup is attempted.
func (g *GithubClient) CreatePRWithCursorRules(owner, repo, ruleContent, ruleTitle, ruleID, fileName string) (*PullRequest, error) {
	defaultBranch, err := g.GetDefaultBranch(owner, repo)
	if err != nil {
		var ghErr *GithubError
		if errors.As(err, &ghErr) && ghErr.StatusCode == http.StatusNotFound {
			return nil, repoNotFoundError(owner, repo)
		}
		return nil, err
	}

	idPrefix := ruleID
	if len(idPrefix) > 8 {
		idPrefix = idPrefix[:8]
	}
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	branchName := fmt.Sprintf("add-cursor-rules-%s-%s", idPrefix, timestamp)

	if err := g.CreateBranch(owner, repo, branchName, defaultBranch); err != nil {
		var ghErr *GithubError
		if errors.As(err, &ghErr) && ghErr.StatusCode == http.StatusNotFound {
			return nil, repoNotFoundError(owner, repo)
		}
		return nil, err
	}

	commitMessage := "Add cursor rules: " + ruleTitle
	if err := g.CreateOrUpdateRuleFile(owner, repo, branchName, fileName, ruleContent, commitMessage); err != nil {
		return nil, err
	}

	appURL := config.AppConfig.AppURL
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	prBody := fmt.Sprintf(
		"This PR adds cursor rules to the repository.\n\n**Rule:** %s\n**Location:** `.cursor/rules/%s`\n\nAdded via [Vibe Helper](%s)",
		ruleTitle, fileName, appURL,
	)

	pr, err := g.CreatePullRequest(owner, repo, commitMessage, prBody, branchName, defaultBranch)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("repo", owner+"/"+repo).
		Str("branch", branchName).
		Int("pr", pr.Number).
		Msg("Created cursor rules PR")

	return pr, nil
}

