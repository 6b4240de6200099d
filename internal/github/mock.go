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

package github

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// Pages are served in order: the initial fetch returns Pages[0] and a
// continuation with cursor Pages[i].PageInfo.EndCursor returns Pages[i+1].
type MockClient struct {
	mu sync.Mutex

	// Organization and repository metadata returned with every page
	Organization Organization

	// Pages of issues served by FetchIssues
	Pages []IssueConnection

	// QueryErrors is attached to every issues response
	QueryErrors []QueryError

	// StarErrors is attached to every star mutation response
	StarErrors []QueryError

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool
	MissingRepository  bool

	// Starred is the server side star flag
	Starred bool

	// ViewerInfo is returned by Viewer
	ViewerInfo Viewer

	// Track calls for verification
	CallCount    int
	StarCalls    int
	LastRequest  FetchRequest
	LastStarID   string
	FetchHistory []FetchRequest
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Organization: Organization{
			Name: "Google",
			URL:  "https://github.com/google",
			Repository: &Repository{
				ID:         "MDEwOlJlcG9zaXRvcnkxMzM0MTY1",
				Name:       "tink",
				URL:        "https://github.com/google/tink",
				Stargazers: Stargazers{TotalCount: 10},
			},
		},
		Pages:      GenerateIssuePages(5, 3),
		ViewerInfo: Viewer{Login: "octocat", Name: "The Octocat", RateLimit: RateLimit{Limit: 5000, Remaining: 4999}},
	}
}

// FetchIssues implements the Client interface
func (m *MockClient) FetchIssues(ctx context.Context, req FetchRequest) (*IssuesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastRequest = req
	m.FetchHistory = append(m.FetchHistory, req)

	if err := m.failure(ctx, req.Organization, req.Repository); err != nil {
		return nil, err
	}

	resp := &IssuesResponse{Errors: m.QueryErrors}
	if m.ShouldFailNotFound {
		resp.Errors = append(resp.Errors, QueryError{
			Type:    "NOT_FOUND",
			Message: fmt.Sprintf("Could not resolve to an Organization with the login of '%s'.", req.Organization),
		})
		return resp, nil
	}

	org := m.Organization
	if m.MissingRepository {
		org.Repository = nil
		resp.Organization = &org
		return resp, nil
	}

	page, err := m.page(req)
	if err != nil {
		return nil, err
	}
	repo := m.Organization.Repository.Clone()
	repo.ViewerHasStarred = m.Starred
	repo.Issues = page
	org.Repository = repo
	resp.Organization = &org
	return resp, nil
}

func (m *MockClient) page(req FetchRequest) (IssueConnection, error) {
	if len(m.Pages) == 0 {
		return IssueConnection{Edges: []IssueEdge{}}, nil
	}
	if req.Kind == FetchInitial {
		return m.Pages[0], nil
	}
	for i, p := range m.Pages[:len(m.Pages)-1] {
		if p.PageInfo.EndCursor == req.Cursor {
			return m.Pages[i+1], nil
		}
	}
	return IssueConnection{}, fmt.Errorf("mock: unknown cursor %q", req.Cursor)
}

// AddStar implements the Client interface
func (m *MockClient) AddStar(ctx context.Context, repositoryID string) (*StarResponse, error) {
	return m.star(ctx, repositoryID, true)
}

// RemoveStar implements the Client interface
func (m *MockClient) RemoveStar(ctx context.Context, repositoryID string) (*StarResponse, error) {
	return m.star(ctx, repositoryID, false)
}

func (m *MockClient) star(ctx context.Context, repositoryID string, starred bool) (*StarResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StarCalls++
	m.LastStarID = repositoryID

	if err := m.failure(ctx, "", ""); err != nil {
		return nil, err
	}
	if len(m.StarErrors) > 0 {
		return &StarResponse{Errors: m.StarErrors}, nil
	}

	m.Starred = starred
	return &StarResponse{Starrable: &Starrable{ViewerHasStarred: starred}}, nil
}

// Viewer implements the Client interface
func (m *MockClient) Viewer(ctx context.Context) (*Viewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(ctx, "", ""); err != nil {
		return nil, err
	}
	v := m.ViewerInfo
	return &v, nil
}

func (m *MockClient) failure(ctx context.Context, owner, repo string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return &apperrors.TransportError{StatusCode: 401, Message: "Bad credentials", Err: apperrors.ErrInvalidToken}
	}
	if m.ShouldFailNetwork {
		return &apperrors.TransportError{Err: fmt.Errorf("%w: dial tcp: connection refused", apperrors.ErrNetworkFailure)}
	}
	if owner == "nonexistent" && repo == "repo" {
		return &apperrors.TransportError{StatusCode: 404, Message: "Not Found", Err: apperrors.ErrRepoNotFound}
	}
	return m.Error
}

// GenerateIssuePages builds consecutive pages with unique issue ids. Every
// page but the last has a next page; cursors are "C1", "C2", ...
func GenerateIssuePages(sizes ...int) []IssueConnection {
	pages := make([]IssueConnection, 0, len(sizes))
	n := 0
	for i, size := range sizes {
		edges := make([]IssueEdge, 0, size)
		for j := 0; j < size; j++ {
			n++
			edges = append(edges, IssueEdge{Node: Issue{
				ID:    fmt.Sprintf("I_%d", n),
				Title: fmt.Sprintf("Issue %d", n),
				URL:   fmt.Sprintf("https://github.com/google/tink/issues/%d", n),
			}})
		}
		pages = append(pages, IssueConnection{
			Edges: edges,
			PageInfo: PageInfo{
				EndCursor:   fmt.Sprintf("C%d", i+1),
				HasNextPage: i < len(sizes)-1,
			},
		})
	}
	return pages
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPages sets the issue pages to serve
func WithPages(pages ...IssueConnection) MockClientOption {
	return func(m *MockClient) {
		m.Pages = pages
	}
}

// WithStargazers sets the initial star flag and count
func WithStargazers(starred bool, count int) MockClientOption {
	return func(m *MockClient) {
		m.Starred = starred
		m.Organization.Repository.Stargazers.TotalCount = count
	}
}

// WithQueryErrors attaches GraphQL errors to every issues response
func WithQueryErrors(messages ...string) MockClientOption {
	return func(m *MockClient) {
		for _, msg := range messages {
			m.QueryErrors = append(m.QueryErrors, QueryError{Message: msg})
		}
	}
}

// WithMissingRepository makes the organization resolve without the repository
func WithMissingRepository() MockClientOption {
	return func(m *MockClient) {
		m.MissingRepository = true
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
