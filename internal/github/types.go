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
	"fmt"
	"strings"
)

// Organization is the organization object returned by the getIssues query.
// Repository is nil when the organization exists but the repository does not.
type Organization struct {
	Name       string      `json:"name" yaml:"name"`
	URL        string      `json:"url" yaml:"url"`
	Repository *Repository `json:"repository" yaml:"repository,omitempty"`
}

// Repository carries the metadata, star state and the accumulated page of
// open issues for one repository.
type Repository struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	URL              string          `json:"url" yaml:"url"`
	ViewerHasStarred bool            `json:"viewerHasStarred" yaml:"viewer_has_starred"`
	Stargazers       Stargazers      `json:"stargazers" yaml:"stargazers"`
	Issues           IssueConnection `json:"issues" yaml:"issues"`
}

// Stargazers holds the star count of a repository.
type Stargazers struct {
	TotalCount int `json:"totalCount" yaml:"total_count"`
}

// IssueConnection is a relay style connection of issues. Edges keep server
// order and only ever grow across continuation fetches.
type IssueConnection struct {
	Edges    []IssueEdge `json:"edges" yaml:"edges"`
	PageInfo PageInfo    `json:"pageInfo" yaml:"page_info"`
}

// IssueEdge wraps a single issue node.
type IssueEdge struct {
	Node Issue `json:"node" yaml:"node"`
}

// Issue is the subset of issue fields the client displays.
type Issue struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// PageInfo describes where the next page starts. A null endCursor decodes
// to the empty string; HasNextPage alone decides whether another fetch is
// attempted.
type PageInfo struct {
	EndCursor   string `json:"endCursor" yaml:"end_cursor"`
	HasNextPage bool   `json:"hasNextPage" yaml:"has_next_page"`
}

// QueryError is one entry of a GraphQL errors array, kept verbatim.
type QueryError struct {
	Message string `json:"message" yaml:"message"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Path    []any  `json:"path,omitempty" yaml:"path,omitempty"`
}

// Messages returns the message of every error, in order.
func Messages(errs []QueryError) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

// IssuesResponse is the decoded result of a getIssues request. Organization
// and Errors may both be set when the server reports a partial result.
type IssuesResponse struct {
	Organization *Organization
	Errors       []QueryError
}

// Starrable is the object returned by the star mutations.
type Starrable struct {
	ViewerHasStarred bool `json:"viewerHasStarred"`
}

// StarResponse is the decoded result of an addStar or removeStar mutation.
// Starrable is nil when the mutation failed.
type StarResponse struct {
	Starrable *Starrable
	Errors    []QueryError
}

// Viewer identifies the authenticated user and the remaining GraphQL
// rate limit budget.
type Viewer struct {
	Login     string    `json:"login" yaml:"login"`
	Name      string    `json:"name" yaml:"name"`
	RateLimit RateLimit `json:"rate_limit" yaml:"rate_limit"`
}

// RateLimit is the GraphQL API budget reported by the rateLimit field.
type RateLimit struct {
	Limit     int    `json:"limit" yaml:"limit"`
	Remaining int    `json:"remaining" yaml:"remaining"`
	ResetAt   string `json:"reset_at" yaml:"reset_at"`
}

// FetchKind tags a FetchRequest as the first page or a follow-up page.
type FetchKind int

const (
	// FetchInitial loads the first page and replaces all prior state.
	FetchInitial FetchKind = iota
	// FetchContinuation loads the page after Cursor and merges it.
	FetchContinuation
)

func (k FetchKind) String() string {
	switch k {
	case FetchInitial:
		return "initial"
	case FetchContinuation:
		return "continuation"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// FetchRequest describes one getIssues request. Build it with InitialFetch
// or ContinuationFetch; only a continuation carries a cursor.
type FetchRequest struct {
	Kind         FetchKind
	Organization string
	Repository   string
	Cursor       string
}

// InitialFetch requests the first page of open issues.
func InitialFetch(organization, repository string) FetchRequest {
	return FetchRequest{
		Kind:         FetchInitial,
		Organization: organization,
		Repository:   repository,
	}
}

// ContinuationFetch requests the page that follows cursor.
func ContinuationFetch(organization, repository, cursor string) FetchRequest {
	return FetchRequest{
		Kind:         FetchContinuation,
		Organization: organization,
		Repository:   repository,
		Cursor:       cursor,
	}
}

// Path returns the request target as "organization/repository".
func (r FetchRequest) Path() string {
	return r.Organization + "/" + r.Repository
}

// ParseRepositoryPath splits an "organization/repository" path. A leading
// https://github.com/ and a trailing ".git" or slash are tolerated so a
// pasted repository URL works too.
func ParseRepositoryPath(path string) (organization, repository string, err error) {
	trimmed := strings.TrimSpace(path)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(strings.ToLower(trimmed), prefix) {
			trimmed = trimmed[len(prefix):]
			break
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "/"), ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", path)
	}

	organization = strings.TrimSpace(parts[0])
	repository = strings.TrimSpace(parts[1])
	if organization == "" || repository == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", path)
	}

	return organization, repository, nil
}

// Clone returns a deep copy of the organization, or nil for nil.
func (o *Organization) Clone() *Organization {
	if o == nil {
		return nil
	}
	c := *o
	c.Repository = o.Repository.Clone()
	return &c
}

// Clone returns a deep copy of the repository, or nil for nil.
func (r *Repository) Clone() *Repository {
	if r == nil {
		return nil
	}
	c := *r
	if r.Issues.Edges != nil {
		c.Issues.Edges = make([]IssueEdge, len(r.Issues.Edges))
		copy(c.Issues.Edges, r.Issues.Edges)
	}
	return &c
}
