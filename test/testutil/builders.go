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
	"fmt"
)

// IssueBuilder provides a fluent API for creating test issues
type IssueBuilder struct {
	id    string
	title string
	url   string
}

// NewIssueBuilder creates a new issue builder with defaults derived from
// the repository and issue number
func NewIssueBuilder(org, repo string, number int) *IssueBuilder {
	return &IssueBuilder{
		id:    "I_" + base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s/%s#%d", org, repo, number))),
		title: fmt.Sprintf("Issue %d", number),
		url:   fmt.Sprintf("https://github.com/%s/%s/issues/%d", org, repo, number),
	}
}

// WithID sets the issue node id
func (b *IssueBuilder) WithID(id string) *IssueBuilder {
	b.id = id
	return b
}

// WithTitle sets the issue title
func (b *IssueBuilder) WithTitle(title string) *IssueBuilder {
	b.title = title
	return b
}

// Build creates the issue node
func (b *IssueBuilder) Build() map[string]interface{} {
	return map[string]interface{}{
		"id":    b.id,
		"title": b.title,
		"url":   b.url,
	}
}

// GraphQLResponseBuilder builds getIssues responses
type GraphQLResponseBuilder struct {
	orgName     string
	orgURL      string
	noOrg       bool
	noRepo      bool
	repoID      string
	repoName    string
	starred     bool
	stargazers  int
	issues      []map[string]interface{}
	hasNextPage bool
	endCursor   string
	errors      []map[string]interface{}
}

// NewGraphQLResponseBuilder creates a new response builder for google/tink
func NewGraphQLResponseBuilder() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		orgName:    "Google",
		orgURL:     "https://github.com/google",
		repoID:     "MDEwOlJlcG9zaXRvcnkxMzM0MTY1",
		repoName:   "tink",
		stargazers: 10,
		issues:     []map[string]interface{}{},
	}
}

// WithOrganization sets the organization name and URL
func (b *GraphQLResponseBuilder) WithOrganization(name, url string) *GraphQLResponseBuilder {
	b.orgName = name
	b.orgURL = url
	return b
}

// WithoutOrganization returns a null organization
func (b *GraphQLResponseBuilder) WithoutOrganization() *GraphQLResponseBuilder {
	b.noOrg = true
	return b
}

// WithRepository sets the repository node
func (b *GraphQLResponseBuilder) WithRepository(id, name string, starred bool, stargazers int) *GraphQLResponseBuilder {
	b.repoID = id
	b.repoName = name
	b.starred = starred
	b.stargazers = stargazers
	return b
}

// WithoutRepository returns the organization with a null repository
func (b *GraphQLResponseBuilder) WithoutRepository() *GraphQLResponseBuilder {
	b.noRepo = true
	return b
}

// WithIssues adds issue nodes to the response
func (b *GraphQLResponseBuilder) WithIssues(issues ...map[string]interface{}) *GraphQLResponseBuilder {
	b.issues = append(b.issues, issues...)
	return b
}

// WithPagination sets pagination info
func (b *GraphQLResponseBuilder) WithPagination(hasNext bool, cursor string) *GraphQLResponseBuilder {
	b.hasNextPage = hasNext
	b.endCursor = cursor
	return b
}

// WithError adds an error to the response. Data is still built, so partial
// results can be expressed.
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{
		"message": message,
	})
	return b
}

// Build creates the GraphQL response
func (b *GraphQLResponseBuilder) Build() map[string]interface{} {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"organization": b.organization(),
		},
	}
	if len(b.errors) > 0 {
		response["errors"] = b.errors
	}
	return response
}

func (b *GraphQLResponseBuilder) organization() interface{} {
	if b.noOrg {
		return nil
	}
	org := map[string]interface{}{
		"name":       b.orgName,
		"url":        b.orgURL,
		"repository": nil,
	}
	if b.noRepo {
		return org
	}

	var cursor *string
	if b.endCursor != "" {
		cursor = &b.endCursor
	}

	edges := make([]map[string]interface{}, len(b.issues))
	for i, issue := range b.issues {
		edges[i] = map[string]interface{}{"node": issue}
	}

	org["repository"] = map[string]interface{}{
		"id":               b.repoID,
		"name":             b.repoName,
		"url":              fmt.Sprintf("%s/%s", b.orgURL, b.repoName),
		"viewerHasStarred": b.starred,
		"stargazers": map[string]interface{}{
			"totalCount": b.stargazers,
		},
		"issues": map[string]interface{}{
			"edges": edges,
			"pageInfo": map[string]interface{}{
				"hasNextPage": b.hasNextPage,
				"endCursor":   cursor,
			},
		},
	}
	return org
}

// StarResponse builds the response of the addStar or removeStar mutation
func StarResponse(field string, starred bool) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			field: map[string]interface{}{
				"starrable": map[string]interface{}{
					"viewerHasStarred": starred,
				},
			},
		},
	}
}
