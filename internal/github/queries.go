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
	"sort"
	"strings"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
)

// Operation is a fixed GraphQL document together with the variable names it
// declares. Documents are forwarded to the server verbatim.
type Operation struct {
	Name      string
	Document  string
	Variables []string
}

// Bind builds the variables map for the operation. Supplying a variable the
// document does not declare is a programming error and is rejected.
func (op Operation) Bind(values map[string]any) (map[string]any, error) {
	declared := make(map[string]struct{}, len(op.Variables))
	for _, v := range op.Variables {
		declared[v] = struct{}{}
	}

	var unknown []string
	vars := make(map[string]any, len(values))
	for k, v := range values {
		if _, ok := declared[k]; !ok {
			unknown = append(unknown, k)
			continue
		}
		vars[k] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("operation %s does not declare variables: %s", op.Name, strings.Join(unknown, ", "))
	}
	return vars, nil
}

// IssuesPageSize is the number of open issues requested per page.
const IssuesPageSize = 5

const getIssuesDocument = `
query getIssues($organization: String!, $repository: String!, $cursor: String){
    organization(login: $organization) {
    name
    url
    repository(name: $repository) {
        id
        name
        url
        viewerHasStarred
        stargazers {
        totalCount
        }
        issues(first: 5, after: $cursor, states: [OPEN]) {
        edges {
            node {
            id
            title
            url
            }
        }
        pageInfo {
            endCursor
            hasNextPage
        }
        }
    }
    }
}
`

const addStarDocument = `
mutation ($repositoryId: ID!) {
    addStar(input: {starrableId:$repositoryId}) {
    starrable {
        viewerHasStarred
    }
    }
}
`

const removeStarDocument = `
mutation ($repositoryId: ID!) {
    removeStar(input: {starrableId:$repositoryId}) {
    starrable {
        viewerHasStarred
    }
    }
}
`

// The query catalog. These are the only documents the client sends through
// Execute.
var (
	GetIssues = Operation{
		Name:      "getIssues",
		Document:  getIssuesDocument,
		Variables: []string{"organization", "repository", "cursor"},
	}
	AddStar = Operation{
		Name:      "addStar",
		Document:  addStarDocument,
		Variables: []string{"repositoryId"},
	}
	RemoveStar = Operation{
		Name:      "removeStar",
		Document:  removeStarDocument,
		Variables: []string{"repositoryId"},
	}
)

// issuesVariables binds a FetchRequest to GetIssues. The cursor is bound
// only for a continuation, so an initial fetch can never carry one.
func issuesVariables(req FetchRequest) (map[string]any, error) {
	values := map[string]any{
		"organization": req.Organization,
		"repository":   req.Repository,
	}
	switch req.Kind {
	case FetchInitial:
	case FetchContinuation:
		if req.Cursor == "" {
			return nil, fmt.Errorf("continuation fetch for %s requires a cursor: %w", req.Path(), apperrors.ErrInvalidState)
		}
		values["cursor"] = req.Cursor
	default:
		return nil, fmt.Errorf("unknown fetch kind %v", req.Kind)
	}
	return GetIssues.Bind(values)
}
