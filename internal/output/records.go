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

package output

import (
	"fmt"

	"github.com/sirseerhq/sirseer-issues/internal/github"
)

// IssueRecord is one open issue of a repository, numbered by its position
// in the accumulated list.
type IssueRecord struct {
	Repository string `json:"repository" yaml:"repository"`
	Position   int    `json:"position" yaml:"position"`
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
}

// TextLine implements TextRecord.
func (r IssueRecord) TextLine() string {
	return fmt.Sprintf("%3d. %s\n     %s", r.Position, r.Title, r.URL)
}

// IssueRecords converts the accumulated edges of repo into records.
func IssueRecords(path string, repo *github.Repository) []IssueRecord {
	if repo == nil {
		return nil
	}
	records := make([]IssueRecord, 0, len(repo.Issues.Edges))
	for i, e := range repo.Issues.Edges {
		records = append(records, IssueRecord{
			Repository: path,
			Position:   i + 1,
			ID:         e.Node.ID,
			Title:      e.Node.Title,
			URL:        e.Node.URL,
		})
	}
	return records
}

// RepositoryRecord summarizes a loaded repository and its star state.
type RepositoryRecord struct {
	Organization     string `json:"organization" yaml:"organization"`
	Repository       string `json:"repository" yaml:"repository"`
	ID               string `json:"id" yaml:"id"`
	URL              string `json:"url" yaml:"url"`
	ViewerHasStarred bool   `json:"viewer_has_starred" yaml:"viewer_has_starred"`
	Stargazers       int    `json:"stargazers" yaml:"stargazers"`
	OpenIssuesLoaded int    `json:"open_issues_loaded" yaml:"open_issues_loaded"`
	HasNextPage      bool   `json:"has_next_page" yaml:"has_next_page"`
}

// TextLine implements TextRecord.
func (r RepositoryRecord) TextLine() string {
	star := "not starred"
	if r.ViewerHasStarred {
		star = "starred"
	}
	return fmt.Sprintf("%s/%s  %d stargazers (%s)  %s", r.Organization, r.Repository, r.Stargazers, star, r.URL)
}

// NewRepositoryRecord builds a RepositoryRecord, or returns false when org
// carries no repository.
func NewRepositoryRecord(org *github.Organization) (RepositoryRecord, bool) {
	if org == nil || org.Repository == nil {
		return RepositoryRecord{}, false
	}
	repo := org.Repository
	return RepositoryRecord{
		Organization:     org.Name,
		Repository:       repo.Name,
		ID:               repo.ID,
		URL:              repo.URL,
		ViewerHasStarred: repo.ViewerHasStarred,
		Stargazers:       repo.Stargazers.TotalCount,
		OpenIssuesLoaded: len(repo.Issues.Edges),
		HasNextPage:      repo.Issues.PageInfo.HasNextPage,
	}, true
}

// ViewerRecord is the output of the whoami command.
type ViewerRecord struct {
	Login          string `json:"login" yaml:"login"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	RateLimit      int    `json:"rate_limit" yaml:"rate_limit"`
	RateRemaining  int    `json:"rate_remaining" yaml:"rate_remaining"`
	RateLimitReset string `json:"rate_limit_reset,omitempty" yaml:"rate_limit_reset,omitempty"`
}

// TextLine implements TextRecord.
func (r ViewerRecord) TextLine() string {
	who := r.Login
	if r.Name != "" {
		who = fmt.Sprintf("%s (%s)", r.Login, r.Name)
	}
	return fmt.Sprintf("%s  rate limit %d/%d, resets %s", who, r.RateRemaining, r.RateLimit, r.RateLimitReset)
}
