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

// Package reconcile merges GraphQL results into the client-held organization
// state. It never mutates its inputs: every result is a fresh copy, so a
// caller can keep showing the previous state until it swaps in the new one.
package reconcile

import (
	"fmt"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
)

// IssueState is the outcome of reconciling one getIssues response.
type IssueState struct {
	Organization *github.Organization
	Errors       []github.QueryError
}

// ResolveIssueQuery folds next into previous according to req.
//
// An initial fetch replaces everything with next, including when next has
// no organization or repository. A continuation fetch appends next's edges
// after the previously accumulated ones and takes next's pageInfo; it needs
// a populated previous repository and fails with ErrInvalidState otherwise.
// In both cases next.Errors replaces any earlier errors.
func ResolveIssueQuery(previous *github.Organization, next github.IssuesResponse, req github.FetchRequest) (IssueState, error) {
	switch req.Kind {
	case github.FetchInitial:
		return IssueState{
			Organization: next.Organization.Clone(),
			Errors:       next.Errors,
		}, nil
	case github.FetchContinuation:
	default:
		return IssueState{}, fmt.Errorf("unknown fetch kind %v: %w", req.Kind, apperrors.ErrInvalidState)
	}

	if previous == nil || previous.Repository == nil {
		return IssueState{}, fmt.Errorf("continuation fetch for %s with no repository loaded: %w", req.Path(), apperrors.ErrInvalidState)
	}

	merged := previous.Clone()
	state := IssueState{Organization: merged, Errors: next.Errors}

	// A failed continuation keeps what was already merged.
	if next.Organization == nil || next.Organization.Repository == nil {
		return state, nil
	}

	page := next.Organization.Repository.Issues
	merged.Repository.Issues.Edges = AppendEdges(merged.Repository.Issues.Edges, page.Edges)
	merged.Repository.Issues.PageInfo = page.PageInfo
	return state, nil
}

// AppendEdges appends page to edges in order, skipping any node whose id is
// already present. Well-behaved cursors never produce such overlaps.
func AppendEdges(edges, page []github.IssueEdge) []github.IssueEdge {
	seen := make(map[string]struct{}, len(edges)+len(page))
	for _, e := range edges {
		seen[e.Node.ID] = struct{}{}
	}

	out := make([]github.IssueEdge, len(edges), len(edges)+len(page))
	copy(out, edges)
	for _, e := range page {
		if _, dup := seen[e.Node.ID]; dup {
			continue
		}
		seen[e.Node.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// ResolveStarMutation applies the viewerHasStarred flag returned by a star
// mutation. The count moves by one only when the flag actually changes and
// never drops below zero; the schema does not return an updated count.
func ResolveStarMutation(previous *github.Organization, viewerHasStarred bool) (*github.Organization, error) {
	if previous == nil || previous.Repository == nil {
		return nil, fmt.Errorf("star mutation with no repository loaded: %w", apperrors.ErrInvalidState)
	}

	next := previous.Clone()
	repo := next.Repository
	if repo.ViewerHasStarred != viewerHasStarred {
		if viewerHasStarred {
			repo.Stargazers.TotalCount++
		} else if repo.Stargazers.TotalCount > 0 {
			repo.Stargazers.TotalCount--
		}
	}
	repo.ViewerHasStarred = viewerHasStarred
	return next, nil
}
