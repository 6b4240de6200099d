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

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
//
// GraphQL errors in a well-formed envelope are returned inside the response
// values, never as a Go error. A non-nil error always means no envelope was
// obtained (see errors.TransportError).
type Client interface {
	// FetchIssues runs the getIssues query for req. Only a continuation
	// request sends a cursor.
	FetchIssues(ctx context.Context, req FetchRequest) (*IssuesResponse, error)

	// AddStar stars the repository with the given node ID.
	AddStar(ctx context.Context, repositoryID string) (*StarResponse, error)

	// RemoveStar removes the viewer's star from the repository.
	RemoveStar(ctx context.Context, repositoryID string) (*StarResponse, error)

	// Viewer returns the authenticated user and the remaining rate limit.
	Viewer(ctx context.Context) (*Viewer, error)
}
