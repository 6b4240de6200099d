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

// Package metadata tracks what a non-interactive fetch did: requests sent,
// pages and issues received, and how long it took. The summary feeds the
// closing progress line and the debug log; nothing is persisted.
package metadata

import (
	"time"

	"github.com/google/uuid"
)

// Tracker collects statistics during a fetch operation. Create one at the
// start of each run. It is not safe for concurrent use; the issues loop is
// sequential.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	pages        int
	issueStats   IssueStats
	now          func() time.Time
}

// IssueStats holds the running issue counters.
type IssueStats struct {
	Total   int
	FirstID string
	LastID  string
}

// New creates a new tracker started at the current time.
func New() *Tracker {
	return newTracker(time.Now)
}

func newTracker(now func() time.Time) *Tracker {
	return &Tracker{
		startTime: now(),
		now:       now,
	}
}

// IncrementAPICall records that a request was sent, whatever its outcome.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordPage records a page that was applied to the session.
func (t *Tracker) RecordPage() {
	t.pages++
}

// UpdateIssueStats records one newly written issue.
func (t *Tracker) UpdateIssueStats(id string) {
	t.issueStats.Total++
	if t.issueStats.FirstID == "" {
		t.issueStats.FirstID = id
	}
	t.issueStats.LastID = id
}

// Stats returns the issue counters collected so far.
func (t *Tracker) Stats() IssueStats {
	return t.issueStats
}

// GenerateSummary creates the FetchSummary of the run. complete reports
// whether the repository has no further pages.
func (t *Tracker) GenerateSummary(tool string, params FetchParams, complete bool) *FetchSummary {
	completedAt := t.now()

	return &FetchSummary{
		Tool:       tool,
		FetchID:    uuid.NewString(),
		Parameters: params,
		Results: FetchResults{
			TotalIssues:  t.issueStats.Total,
			Pages:        t.pages,
			FirstIssueID: t.issueStats.FirstID,
			LastIssueID:  t.issueStats.LastID,
			Complete:     complete,
			Duration:     completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
			APICallCount: t.apiCallCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
	}
}
