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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/output"
)

func decodeIssueRecords(t *testing.T, data string) []output.IssueRecord {
	t.Helper()
	var records []output.IssueRecord
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if line == "" {
			continue
		}
		var rec output.IssueRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("failed to parse line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestRunIssues_MockClient(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		opts         issuesOptions
		mockSetup    func() *github.MockClient
		wantErr      error
		wantAnyErr   bool
		wantRecords  int
		wantCalls    int
		wantProgress string
	}{
		{
			name:         "first page only",
			path:         "google/tink",
			opts:         issuesOptions{Pages: 1},
			mockSetup:    github.NewMockClient,
			wantRecords:  5,
			wantCalls:    1,
			wantProgress: "Fetched 5 open issues from google/tink (more available)",
		},
		{
			name:         "two pages",
			path:         "google/tink",
			opts:         issuesOptions{Pages: 2},
			mockSetup:    github.NewMockClient,
			wantRecords:  8,
			wantCalls:    2,
			wantProgress: "Fetched all 8 open issues from google/tink",
		},
		{
			name: "all pages",
			path: "google/tink",
			opts: issuesOptions{All: true, Pages: 1},
			mockSetup: func() *github.MockClient {
				return github.NewMockClientWithOptions(github.WithPages(github.GenerateIssuePages(5, 5, 2)...))
			},
			wantRecords: 12,
			wantCalls:   3,
		},
		{
			name:        "more pages requested than exist",
			path:        "google/tink",
			opts:        issuesOptions{Pages: 5},
			mockSetup:   github.NewMockClient,
			wantRecords: 8,
			wantCalls:   2,
		},
		{
			name: "empty repository",
			path: "google/tink",
			opts: issuesOptions{Pages: 1},
			mockSetup: func() *github.MockClient {
				return github.NewMockClientWithOptions(github.WithPages())
			},
			wantRecords:  0,
			wantCalls:    1,
			wantProgress: "No open issues found in google/tink",
		},
		{
			name: "partial result is written before the error",
			path: "google/tink",
			opts: issuesOptions{All: true},
			mockSetup: func() *github.MockClient {
				return github.NewMockClientWithOptions(github.WithQueryErrors("Something went wrong"))
			},
			wantErr:     apperrors.ErrQuery,
			wantRecords: 5,
			wantCalls:   1,
		},
		{
			name: "organization without repository",
			path: "google/missing",
			opts: issuesOptions{Pages: 1},
			mockSetup: func() *github.MockClient {
				return github.NewMockClientWithOptions(github.WithMissingRepository())
			},
			wantErr:   apperrors.ErrRepoNotFound,
			wantCalls: 1,
		},
		{
			name: "unknown organization",
			path: "nosuchorg/tink",
			opts: issuesOptions{Pages: 1},
			mockSetup: func() *github.MockClient {
				m := github.NewMockClient()
				m.ShouldFailNotFound = true
				return m
			},
			wantErr:   apperrors.ErrRepoNotFound,
			wantCalls: 1,
		},
		{
			name:      "authentication failure",
			path:      "google/tink",
			opts:      issuesOptions{Pages: 1},
			mockSetup: func() *github.MockClient { return github.NewMockClientWithOptions(github.WithAuthFailure()) },
			wantErr:   apperrors.ErrInvalidToken,
			wantCalls: 1,
		},
		{
			name: "network failure",
			path: "google/tink",
			opts: issuesOptions{Pages: 1},
			mockSetup: func() *github.MockClient {
				m := github.NewMockClient()
				m.ShouldFailNetwork = true
				return m
			},
			wantErr:   apperrors.ErrNetworkFailure,
			wantCalls: 1,
		},
		{
			name:       "invalid path",
			path:       "invalid",
			opts:       issuesOptions{Pages: 1},
			mockSetup:  github.NewMockClient,
			wantAnyErr: true,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := tt.mockSetup()
			var stdout, stderr bytes.Buffer
			w := output.NewWriter(&stdout)

			err := runIssues(context.Background(), client, tt.path, tt.opts, w, &stderr)
			if closeErr := w.Close(); closeErr != nil {
				t.Fatalf("Close() error = %v", closeErr)
			}

			wantErr := tt.wantErr != nil || tt.wantAnyErr
			switch {
			case !wantErr && err != nil:
				t.Fatalf("runIssues() unexpected error = %v", err)
			case wantErr && err == nil:
				t.Fatal("runIssues() expected an error, got nil")
			case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
				t.Fatalf("runIssues() error = %v, want %v", err, tt.wantErr)
			}

			records := decodeIssueRecords(t, stdout.String())
			if len(records) != tt.wantRecords {
				t.Errorf("got %d records, want %d", len(records), tt.wantRecords)
			}
			for i, rec := range records {
				if rec.Position != i+1 {
					t.Errorf("record %d position = %d, want %d", i, rec.Position, i+1)
				}
				if rec.Repository != tt.path {
					t.Errorf("record %d repository = %q, want %q", i, rec.Repository, tt.path)
				}
			}

			if client.CallCount != tt.wantCalls {
				t.Errorf("CallCount = %d, want %d", client.CallCount, tt.wantCalls)
			}
			if tt.wantProgress != "" && !strings.Contains(stderr.String(), tt.wantProgress) {
				t.Errorf("progress output %q does not contain %q", stderr.String(), tt.wantProgress)
			}
		})
	}
}

func TestRunIssues_FollowsEndCursor(t *testing.T) {
	client := github.NewMockClientWithOptions(github.WithPages(github.GenerateIssuePages(5, 5, 1)...))
	var stdout, stderr bytes.Buffer
	w := output.NewWriter(&stdout)

	if err := runIssues(context.Background(), client, "google/tink", issuesOptions{All: true}, w, &stderr); err != nil {
		t.Fatalf("runIssues() error = %v", err)
	}

	want := []github.FetchRequest{
		github.InitialFetch("google", "tink"),
		github.ContinuationFetch("google", "tink", "C1"),
		github.ContinuationFetch("google", "tink", "C2"),
	}
	if len(client.FetchHistory) != len(want) {
		t.Fatalf("got %d requests, want %d", len(client.FetchHistory), len(want))
	}
	for i := range want {
		if client.FetchHistory[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, client.FetchHistory[i], want[i])
		}
	}

	records := decodeIssueRecords(t, stdout.String())
	if got := records[len(records)-1].ID; got != "I_11" {
		t.Errorf("last issue id = %q, want I_11", got)
	}
}

func TestRunIssues_TextOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := output.NewTextWriter(&stdout)

	if err := runIssues(context.Background(), github.NewMockClient(), "google/tink", issuesOptions{Pages: 1}, w, &stderr); err != nil {
		t.Fatalf("runIssues() error = %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"  1. Issue 1", "https://github.com/google/tink/issues/5"} {
		if !strings.Contains(got, want) {
			t.Errorf("text output %q does not contain %q", got, want)
		}
	}
}

func TestIssuesOptions_WantPage(t *testing.T) {
	tests := []struct {
		opts issuesOptions
		page int
		want bool
	}{
		{issuesOptions{Pages: 1}, 1, true},
		{issuesOptions{Pages: 1}, 2, false},
		{issuesOptions{Pages: 3}, 3, true},
		{issuesOptions{All: true, Pages: 1}, 100, true},
	}

	for _, tt := range tests {
		if got := tt.opts.wantPage(tt.page); got != tt.want {
			t.Errorf("%+v.wantPage(%d) = %v, want %v", tt.opts, tt.page, got, tt.want)
		}
	}
}
