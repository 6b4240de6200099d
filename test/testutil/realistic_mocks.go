// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// issuesPageSize mirrors the "first: 5" of the getIssues document.
const issuesPageSize = 5

// GraphQLRequest represents a parsed GraphQL request
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	Authorization string                 `json:"-"`
	UserAgent     string                 `json:"-"`
	RequestID     string                 `json:"-"`
	Timestamp     time.Time              `json:"-"`
}

// FakeRepository is a repository served by GitHubLikeMockServer. Issues
// are returned newest first in slice order.
type FakeRepository struct {
	Organization     string
	OrganizationName string
	Name             string
	ID               string
	ViewerHasStarred bool
	Stargazers       int
	Issues           []map[string]interface{}
}

// NewFakeRepository creates a repository with count open issues.
func NewFakeRepository(org, name string, count int) *FakeRepository {
	issues := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		issues = append(issues, NewIssueBuilder(org, name, i).Build())
	}
	return &FakeRepository{
		Organization:     org,
		OrganizationName: strings.ToUpper(org[:1]) + org[1:],
		Name:             name,
		ID:               base64.StdEncoding.EncodeToString([]byte("010:Repository" + org + "/" + name)),
		Stargazers:       10,
		Issues:           issues,
	}
}

// GitHubLikeMockServer creates a mock server that behaves like the GitHub
// GraphQL API for the getIssues query, the star mutations and the viewer
// query. Star mutations change the served state.
type GitHubLikeMockServer struct {
	*httptest.Server
	mu                 sync.RWMutex
	repos              map[string]*FakeRepository
	rateLimitRemaining int32
	rateLimitReset     time.Time
	requestHistory     []GraphQLRequest
}

// NewGitHubLikeMockServer creates a realistic GitHub API mock serving repos.
func NewGitHubLikeMockServer(t *testing.T, repos ...*FakeRepository) *GitHubLikeMockServer {
	t.Helper()

	mock := &GitHubLikeMockServer{
		repos:              make(map[string]*FakeRepository),
		rateLimitRemaining: 5000,
		rateLimitReset:     time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	for _, repo := range repos {
		mock.repos[repoKey(repo.Organization, repo.Name)] = repo
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.serveHTTP))
	t.Cleanup(mock.Close)
	return mock
}

// GraphQLURL is the endpoint to configure clients with.
func (m *GitHubLikeMockServer) GraphQLURL() string {
	return m.URL + "/graphql"
}

func (m *GitHubLikeMockServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	// Validate request method and path
	if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// Check authorization
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message":           "Bad credentials",
			"documentation_url": "https://docs.github.com/graphql",
		})
		return
	}

	// Parse GraphQL request
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Problems parsing JSON",
		})
		return
	}
	req.Authorization = auth
	req.UserAgent = r.UserAgent()
	req.RequestID = r.Header.Get("X-Request-ID")
	req.Timestamp = time.Now()

	m.mu.Lock()
	m.requestHistory = append(m.requestHistory, req)
	m.mu.Unlock()

	// Check rate limit
	remaining := atomic.AddInt32(&m.rateLimitRemaining, -1)
	reset := strconv.FormatInt(m.rateLimitReset.Unix(), 10)
	if remaining < 0 {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", reset)
		writeJSON(w, http.StatusForbidden, map[string]string{
			"message":           "API rate limit exceeded for user ID 1.",
			"documentation_url": "https://docs.github.com/graphql/overview/rate-limits-and-node-limits-for-the-graphql-api",
		})
		return
	}
	w.Header().Set("X-RateLimit-Limit", "5000")
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))
	w.Header().Set("X-RateLimit-Reset", reset)

	var response map[string]interface{}
	switch {
	case strings.Contains(req.Query, "addStar("):
		response = m.mutateStar(req, "addStar", true)
	case strings.Contains(req.Query, "removeStar("):
		response = m.mutateStar(req, "removeStar", false)
	case strings.Contains(req.Query, "organization(login:"):
		response = m.issues(req)
	case strings.Contains(req.Query, "viewer"):
		response = m.viewer(int(remaining))
	default:
		response = NewGraphQLResponseBuilder().WithError("Unsupported query").Build()
	}
	writeJSON(w, http.StatusOK, response)
}

// issues answers getIssues, paging through the repository five at a time.
func (m *GitHubLikeMockServer) issues(req GraphQLRequest) map[string]interface{} {
	login, _ := req.Variables["organization"].(string)
	name, _ := req.Variables["repository"].(string)
	cursor, _ := req.Variables["cursor"].(string)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var org *FakeRepository
	for _, repo := range m.repos {
		if strings.EqualFold(repo.Organization, login) {
			org = repo
			break
		}
	}
	if org == nil {
		return NewGraphQLResponseBuilder().
			WithoutOrganization().
			WithError(fmt.Sprintf("Could not resolve to an Organization with the login of '%s'.", login)).
			Build()
	}

	b := NewGraphQLResponseBuilder().WithOrganization(org.OrganizationName, "https://github.com/"+org.Organization)
	repo, ok := m.repos[repoKey(login, name)]
	if !ok {
		return b.WithoutRepository().
			WithError(fmt.Sprintf("Could not resolve to a Repository with the name '%s/%s'.", login, name)).
			Build()
	}

	offset := 0
	if cursor != "" {
		n, err := decodeCursor(cursor)
		if err != nil {
			return b.WithoutRepository().
				WithError(fmt.Sprintf("`%s` does not appear to be a valid cursor.", cursor)).
				Build()
		}
		offset = n
	}
	end := offset + issuesPageSize
	if end > len(repo.Issues) {
		end = len(repo.Issues)
	}
	if offset > end {
		offset = end
	}

	b = b.WithRepository(repo.ID, repo.Name, repo.ViewerHasStarred, repo.Stargazers).
		WithIssues(repo.Issues[offset:end]...)
	if end > offset {
		b = b.WithPagination(end < len(repo.Issues), encodeCursor(end))
	}
	return b.Build()
}

// mutateStar applies addStar or removeStar to the repository whose node id
// is bound to $repositoryId.
func (m *GitHubLikeMockServer) mutateStar(req GraphQLRequest, field string, starred bool) map[string]interface{} {
	id, _ := req.Variables["repositoryId"].(string)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, repo := range m.repos {
		if repo.ID != id {
			continue
		}
		if repo.ViewerHasStarred != starred {
			repo.ViewerHasStarred = starred
			if starred {
				repo.Stargazers++
			} else {
				repo.Stargazers--
			}
		}
		return StarResponse(field, starred)
	}

	return map[string]interface{}{
		"data": map[string]interface{}{field: nil},
		"errors": []map[string]interface{}{{
			"type":    "NOT_FOUND",
			"path":    []string{field},
			"message": fmt.Sprintf("Could not resolve to a node with the global id of '%s'", id),
		}},
	}
}

func (m *GitHubLikeMockServer) viewer(remaining int) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"viewer": map[string]interface{}{
				"login": "octocat",
				"name":  "The Octocat",
			},
			"rateLimit": map[string]interface{}{
				"limit":     5000,
				"remaining": remaining,
				"resetAt":   m.rateLimitReset.Format(time.RFC3339),
			},
		},
	}
}

// GetRequestHistory returns the history of GraphQL requests
func (m *GitHubLikeMockServer) GetRequestHistory() []GraphQLRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]GraphQLRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// Repository returns a copy of the served state of org/name.
func (m *GitHubLikeMockServer) Repository(org, name string) (FakeRepository, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	repo, ok := m.repos[repoKey(org, name)]
	if !ok {
		return FakeRepository{}, false
	}
	return *repo, true
}

// SetRateLimit sets a specific rate limit
func (m *GitHubLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}

func repoKey(org, name string) string {
	return strings.ToLower(org + "/" + name)
}

// Cursors are opaque to clients; GitHub uses base64 as well.
func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte("cursor:v2:" + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimPrefix(string(raw), "cursor:v2:"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
