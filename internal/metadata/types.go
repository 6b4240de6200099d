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

package metadata

import (
	"time"
)

// FetchSummary describes one run of the issues command: what was asked
// for and what came back.
type FetchSummary struct {
	Tool       string       `json:"tool" yaml:"tool"`
	FetchID    string       `json:"fetch_id" yaml:"fetch_id"`
	Parameters FetchParams  `json:"parameters" yaml:"parameters"`
	Results    FetchResults `json:"results" yaml:"results"`
}

// FetchParams captures the input of a run.
type FetchParams struct {
	Organization string `json:"organization" yaml:"organization"`
	Repository   string `json:"repository" yaml:"repository"`
	FetchAll     bool   `json:"fetch_all" yaml:"fetch_all"`
	MaxPages     int    `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`
	PageSize     int    `json:"page_size" yaml:"page_size"`
}

// FetchResults contains the counters collected while the run progressed.
// Complete is true when the last page reported no next page.
type FetchResults struct {
	TotalIssues  int       `json:"total_issues" yaml:"total_issues"`
	Pages        int       `json:"pages" yaml:"pages"`
	FirstIssueID string    `json:"first_issue_id,omitempty" yaml:"first_issue_id,omitempty"`
	LastIssueID  string    `json:"last_issue_id,omitempty" yaml:"last_issue_id,omitempty"`
	Complete     bool      `json:"complete" yaml:"complete"`
	Duration     string    `json:"fetch_duration" yaml:"fetch_duration"`
	APICallCount int       `json:"api_calls_made" yaml:"api_calls_made"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt  time.Time `json:"completed_at" yaml:"completed_at"`
}
