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
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/logging"
	"github.com/sirseerhq/sirseer-issues/internal/metadata"
	"github.com/sirseerhq/sirseer-issues/internal/output"
	"github.com/sirseerhq/sirseer-issues/internal/state"
	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

// issuesOptions controls how many pages the issues command loads.
// Pages is ignored when All is set.
type issuesOptions struct {
	All   bool
	Pages int
}

func (o issuesOptions) wantPage(n int) bool {
	return o.All || n <= o.Pages
}

func newIssuesCommand(opts *globalOptions) *cobra.Command {
	var pageOpts issuesOptions

	cmd := &cobra.Command{
		Use:   "issues <org>/<repo>",
		Short: "List the open issues of a GitHub repository",
		Long: `List the open issues of a GitHub repository, newest first.

The repository must be specified in the format: <org>/<repo>
For example: google/tink, golang/go

Issues are requested five at a time. By default only the first page is
listed; use --pages to load more or --all to follow every page.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable (a .env file is honored)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageOpts.Pages < 1 {
				return fmt.Errorf("--pages must be at least 1, got %d", pageOpts.Pages)
			}

			w, err := opts.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runErr := runIssues(cmd.Context(), opts.client(), args[0], pageOpts, w, cmd.ErrOrStderr())
			if err := w.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to close output: %w", err)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&pageOpts.All, "all", false, "Fetch every page of open issues")
	cmd.Flags().IntVar(&pageOpts.Pages, "pages", 1, "Number of pages to fetch")
	cmd.MarkFlagsMutuallyExclusive("all", "pages")

	return cmd
}

// runIssues loads path through a session and streams one record per issue
// as pages arrive. Records that were loaded before a failure are still
// written; the failure is returned afterwards.
func runIssues(ctx context.Context, client github.Client, path string, opts issuesOptions, w output.OutputWriter, progress io.Writer) error {
	session := state.NewSession()
	tracker := metadata.New()

	cmd, err := session.Submit(path)
	if err != nil {
		return err
	}
	params := metadata.FetchParams{
		Organization: cmd.Fetch.Organization,
		Repository:   cmd.Fetch.Repository,
		FetchAll:     opts.All,
		PageSize:     github.IssuesPageSize,
	}
	if !opts.All {
		params.MaxPages = opts.Pages
	}

	snap := session.Snapshot()
	fmt.Fprintf(progress, "Fetching open issues from %s...", snap.Path)

	written := 0
	for page := 1; ; page++ {
		tracker.IncrementAPICall()
		if err := session.Do(ctx, client, cmd); err != nil {
			fmt.Fprintf(progress, "\r\033[K")
			return err
		}

		snap = session.Snapshot()
		if snap.Repository() != nil {
			tracker.RecordPage()
		}
		records := output.IssueRecords(snap.Path, snap.Repository())
		for _, rec := range records[written:] {
			if err := w.Write(rec); err != nil {
				fmt.Fprintf(progress, "\r\033[K")
				return fmt.Errorf("failed to write issue: %w", err)
			}
			tracker.UpdateIssueStats(rec.ID)
		}
		written = len(records)

		fmt.Fprintf(progress, "\rFetching open issues from %s... %d issues, page %d", snap.Path, written, page)
		logging.Debug("page loaded", "path", snap.Path, "page", page, "issues", written, "phase", snap.Phase.String())

		if snap.Phase != state.PhaseLoaded || !snap.CanFetchMore || !opts.wantPage(page+1) {
			break
		}
		if cmd, err = session.FetchMore(); err != nil {
			fmt.Fprintf(progress, "\r\033[K")
			return err
		}
	}

	fmt.Fprintf(progress, "\r\033[K") // Clear progress line

	summary := tracker.GenerateSummary(version.UserAgent(), params, !snap.CanFetchMore)
	logging.Debug("fetch finished",
		"fetch_id", summary.FetchID,
		"path", snap.Path,
		"phase", snap.Phase.String(),
		"issues", summary.Results.TotalIssues,
		"pages", summary.Results.Pages,
		"api_calls", summary.Results.APICallCount,
		"duration", summary.Results.Duration)

	if failure := snap.Failure(); failure != nil {
		if len(snap.Errors) > 0 && written > 0 {
			logging.Warn("partial result", "path", snap.Path, "issues", written, "errors", len(snap.Errors))
		}
		return failure
	}

	r := summary.Results
	switch {
	case r.TotalIssues == 0:
		fmt.Fprintf(progress, "No open issues found in %s\n", snap.Path)
	case !r.Complete:
		fmt.Fprintf(progress, "Fetched %d open issues from %s (more available) in %s, %d requests\n", r.TotalIssues, snap.Path, r.Duration, r.APICallCount)
	default:
		fmt.Fprintf(progress, "Fetched all %d open issues from %s in %s, %d requests\n", r.TotalIssues, snap.Path, r.Duration, r.APICallCount)
	}
	return nil
}
