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

package state

import (
	"fmt"

	"github.com/sirseerhq/sirseer-issues/internal/github"
)

// Phase is the display state of the session.
type Phase int

const (
	// PhaseIdle means nothing has been submitted yet.
	PhaseIdle Phase = iota
	// PhaseLoading means the first page of a submitted path is in flight.
	PhaseLoading
	// PhaseError means the last response carried GraphQL errors or failed
	// in transport.
	PhaseError
	// PhaseLoaded means a repository is loaded.
	PhaseLoaded
	// PhaseNotFound means the query succeeded without the repository.
	PhaseNotFound
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseLoaded:
		return "loaded"
	case PhaseNotFound:
		return "not found"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Action identifies a user-triggered operation. Each action admits at most
// one request in flight.
type Action int

const (
	// ActionFetch loads the first page of a submitted path.
	ActionFetch Action = iota
	// ActionFetchMore loads the page after the current end cursor.
	ActionFetchMore
	// ActionToggleStar adds or removes the viewer's star.
	ActionToggleStar
)

func (a Action) String() string {
	switch a {
	case ActionFetch:
		return "fetch"
	case ActionFetchMore:
		return "fetch more"
	case ActionToggleStar:
		return "toggle star"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Command is a typed request produced by the session for Run.
type Command struct {
	Action Action
	// Generation ties the command to the submission it was issued under.
	Generation uint64
	// Fetch is set for ActionFetch and ActionFetchMore.
	Fetch github.FetchRequest
	// RepositoryID and AddStar are set for ActionToggleStar.
	RepositoryID string
	AddStar      bool
}

// Result is the outcome of running a Command. Exactly one of Issues, Star
// or Err is set.
type Result struct {
	Command Command
	Issues  *github.IssuesResponse
	Star    *github.StarResponse
	Err     error
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Phase        Phase
	Path         string
	Organization *github.Organization
	// Errors are the GraphQL errors of the last response, verbatim.
	Errors []github.QueryError
	// Err is the transport failure of the last action, if any.
	Err error

	FetchingMore bool
	Starring     bool

	// CanFetchMore and CanToggleStar gate the corresponding controls.
	CanFetchMore  bool
	CanToggleStar bool
}

// Repository returns the loaded repository, or nil.
func (s Snapshot) Repository() *github.Repository {
	if s.Organization == nil {
		return nil
	}
	return s.Organization.Repository
}
