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
	"context"
	"fmt"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/giterror"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/logging"
	"github.com/sirseerhq/sirseer-issues/internal/reconcile"
)

// Session is the state of one browsing session. It is not safe for
// concurrent use; all methods are called from the goroutine that owns it.
type Session struct {
	phase        Phase
	organization string
	repository   string

	org    *github.Organization
	errors []github.QueryError
	err    error

	generation uint64
	pending    map[Action]bool
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{
		phase:   PhaseIdle,
		pending: make(map[Action]bool),
	}
}

// Submit starts loading path ("organization/repository"). Everything held
// for a previous path is discarded and results of commands issued before
// this call are ignored by Apply. A submission while the previous one is
// still loading is refused with ErrActionPending.
func (s *Session) Submit(path string) (Command, error) {
	if s.pending[ActionFetch] {
		return Command{}, fmt.Errorf("cannot submit %s: %w", path, apperrors.ErrActionPending)
	}

	org, repo, err := github.ParseRepositoryPath(path)
	if err != nil {
		return Command{}, err
	}

	s.generation++
	s.phase = PhaseLoading
	s.organization = org
	s.repository = repo
	s.org = nil
	s.errors = nil
	s.err = nil
	clear(s.pending)
	s.pending[ActionFetch] = true

	logging.Debug("submitted repository", "path", org+"/"+repo, "generation", s.generation)

	return Command{
		Action:     ActionFetch,
		Generation: s.generation,
		Fetch:      github.InitialFetch(org, repo),
	}, nil
}

// FetchMore requests the page after the current end cursor. It requires a
// loaded repository whose pageInfo reports a next page.
func (s *Session) FetchMore() (Command, error) {
	if s.pending[ActionFetchMore] {
		return Command{}, fmt.Errorf("fetch more: %w", apperrors.ErrActionPending)
	}
	repo := s.loadedRepository()
	if repo == nil {
		return Command{}, fmt.Errorf("fetch more: %w", apperrors.ErrNothingLoaded)
	}
	if !repo.Issues.PageInfo.HasNextPage {
		return Command{}, fmt.Errorf("fetch more for %s: %w", s.path(), apperrors.ErrNoMorePages)
	}

	s.pending[ActionFetchMore] = true
	return Command{
		Action:     ActionFetchMore,
		Generation: s.generation,
		Fetch:      github.ContinuationFetch(s.organization, s.repository, repo.Issues.PageInfo.EndCursor),
	}, nil
}

// ToggleStar requests adding the viewer's star when the repository is not
// starred and removing it otherwise.
func (s *Session) ToggleStar() (Command, error) {
	if s.pending[ActionToggleStar] {
		return Command{}, fmt.Errorf("toggle star: %w", apperrors.ErrActionPending)
	}
	repo := s.loadedRepository()
	if repo == nil {
		return Command{}, fmt.Errorf("toggle star: %w", apperrors.ErrNothingLoaded)
	}

	s.pending[ActionToggleStar] = true
	return Command{
		Action:       ActionToggleStar,
		Generation:   s.generation,
		RepositoryID: repo.ID,
		AddStar:      !repo.ViewerHasStarred,
	}, nil
}

// Run executes cmd against client. It does not touch any session, so it
// may run on a different goroutine than the one that owns the session.
func Run(ctx context.Context, client github.Client, cmd Command) Result {
	res := Result{Command: cmd}
	switch cmd.Action {
	case ActionFetch, ActionFetchMore:
		res.Issues, res.Err = client.FetchIssues(ctx, cmd.Fetch)
	case ActionToggleStar:
		if cmd.AddStar {
			res.Star, res.Err = client.AddStar(ctx, cmd.RepositoryID)
		} else {
			res.Star, res.Err = client.RemoveStar(ctx, cmd.RepositoryID)
		}
	default:
		res.Err = fmt.Errorf("unknown action %v", cmd.Action)
	}
	return res
}

// Do runs cmd and applies its result. It suits sequential callers such as
// the non-interactive commands.
func (s *Session) Do(ctx context.Context, client github.Client, cmd Command) error {
	_, err := s.Apply(Run(ctx, client, cmd))
	return err
}

// Apply folds a Result into the session and re-enables its action. It
// reports false when the result belongs to a superseded submission and was
// dropped. The returned error is a programming error (ErrInvalidState),
// never a request failure; those are recorded in the state.
func (s *Session) Apply(res Result) (bool, error) {
	cmd := res.Command
	if cmd.Generation != s.generation {
		logging.Debug("dropping stale result", "action", cmd.Action.String(), "generation", cmd.Generation, "current", s.generation)
		return false, nil
	}
	if !s.pending[cmd.Action] {
		return false, fmt.Errorf("result for %v without a pending command: %w", cmd.Action, apperrors.ErrInvalidState)
	}
	delete(s.pending, cmd.Action)

	if res.Err != nil {
		logging.Warn("request failed", "action", cmd.Action.String(), "path", s.path(), "error", res.Err)
		s.err = res.Err
		s.phase = PhaseError
		return true, nil
	}

	switch cmd.Action {
	case ActionFetch, ActionFetchMore:
		return true, s.applyIssues(cmd, res.Issues)
	case ActionToggleStar:
		return true, s.applyStar(res.Star)
	default:
		return true, fmt.Errorf("unknown action %v: %w", cmd.Action, apperrors.ErrInvalidState)
	}
}

func (s *Session) applyIssues(cmd Command, resp *github.IssuesResponse) error {
	if resp == nil {
		return fmt.Errorf("%v result without a response: %w", cmd.Action, apperrors.ErrInvalidState)
	}

	next, err := reconcile.ResolveIssueQuery(s.org, *resp, cmd.Fetch)
	if err != nil {
		return err
	}

	s.org = next.Organization
	s.errors = next.Errors
	s.err = nil

	switch {
	case len(s.errors) > 0:
		s.phase = PhaseError
		logging.Warn("query returned errors", "path", s.path(), "errors", github.Messages(s.errors))
	case s.loadedRepository() == nil:
		s.phase = PhaseNotFound
	default:
		s.phase = PhaseLoaded
	}

	if repo := s.loadedRepository(); repo != nil {
		logging.Debug("issues reconciled",
			"path", s.path(),
			"kind", cmd.Fetch.Kind.String(),
			"edges", len(repo.Issues.Edges),
			"has_next_page", repo.Issues.PageInfo.HasNextPage)
	}
	return nil
}

func (s *Session) applyStar(resp *github.StarResponse) error {
	if resp == nil {
		return fmt.Errorf("star result without a response: %w", apperrors.ErrInvalidState)
	}

	s.errors = resp.Errors
	s.err = nil
	if resp.Starrable == nil {
		s.phase = PhaseError
		logging.Warn("star mutation returned no starrable", "path", s.path(), "errors", github.Messages(resp.Errors))
		return nil
	}

	next, err := reconcile.ResolveStarMutation(s.org, resp.Starrable.ViewerHasStarred)
	if err != nil {
		return err
	}
	s.org = next
	if len(s.errors) > 0 {
		s.phase = PhaseError
	} else {
		s.phase = PhaseLoaded
	}

	logging.Debug("star reconciled",
		"path", s.path(),
		"starred", next.Repository.ViewerHasStarred,
		"stargazers", next.Repository.Stargazers.TotalCount)
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        s.phase,
		Organization: s.org.Clone(),
		Err:          s.err,
		FetchingMore: s.pending[ActionFetchMore],
		Starring:     s.pending[ActionToggleStar],
	}
	if s.phase != PhaseIdle {
		snap.Path = s.path()
	}
	if len(s.errors) > 0 {
		snap.Errors = append([]github.QueryError(nil), s.errors...)
	}
	if repo := s.loadedRepository(); repo != nil {
		snap.CanFetchMore = repo.Issues.PageInfo.HasNextPage && !snap.FetchingMore
		snap.CanToggleStar = !snap.Starring
	}
	return snap
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Pending reports whether action has a command in flight.
func (s *Session) Pending(action Action) bool {
	return s.pending[action]
}

func (s *Session) loadedRepository() *github.Repository {
	if s.org == nil {
		return nil
	}
	return s.org.Repository
}

func (s *Session) path() string {
	return s.organization + "/" + s.repository
}

// Failure describes why the snapshot is not a loaded repository, as an
// error suitable for exit code mapping. It returns nil in PhaseLoaded and
// PhaseIdle.
func (s Snapshot) Failure() error {
	switch s.Phase {
	case PhaseError:
		if s.Err != nil {
			return s.Err
		}
		messages := github.Messages(s.Errors)
		inspector := giterror.NewErrorChainInspector(giterror.NewInspector())
		return &apperrors.QueryError{
			Messages: messages,
			Kind:     giterror.ClassifyMessages(inspector, messages),
		}
	case PhaseNotFound:
		return fmt.Errorf("repository %s not found: %w", s.Path, apperrors.ErrRepoNotFound)
	case PhaseLoading:
		return fmt.Errorf("%s is still loading: %w", s.Path, apperrors.ErrActionPending)
	default:
		return nil
	}
}
