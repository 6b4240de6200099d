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

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/output"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// newStarCommand builds "star" when starred is true and "unstar" otherwise.
func newStarCommand(opts *globalOptions, starred bool) *cobra.Command {
	use, short := "star", "Star a GitHub repository"
	if !starred {
		use, short = "unstar", "Remove your star from a GitHub repository"
	}

	return &cobra.Command{
		Use:   use + " <org>/<repo>",
		Short: short,
		Long: short + `.

The repository is loaded first; the mutation is only sent when the current
star state differs. The reconciled stargazer count is printed afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runErr := runStar(cmd.Context(), opts.client(), args[0], starred, w, cmd.ErrOrStderr())
			if err := w.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to close output: %w", err)
			}
			return runErr
		},
	}
}

// runStar loads path and toggles its star when the viewer's flag differs
// from want.
func runStar(ctx context.Context, client github.Client, path string, want bool, w output.OutputWriter, progress io.Writer) error {
	session := state.NewSession()

	cmd, err := session.Submit(path)
	if err != nil {
		return err
	}
	if err := session.Do(ctx, client, cmd); err != nil {
		return err
	}
	snap := session.Snapshot()
	if failure := snap.Failure(); failure != nil {
		return failure
	}

	if snap.Repository().ViewerHasStarred == want {
		fmt.Fprintf(progress, "%s is already %s\n", snap.Path, starLabel(want))
	} else {
		if cmd, err = session.ToggleStar(); err != nil {
			return err
		}
		if err := session.Do(ctx, client, cmd); err != nil {
			return err
		}
		snap = session.Snapshot()
		if failure := snap.Failure(); failure != nil {
			return fmt.Errorf("failed to update star on %s: %w", snap.Path, failure)
		}
		fmt.Fprintf(progress, "%s is now %s\n", snap.Path, starLabel(want))
	}

	rec, ok := output.NewRepositoryRecord(snap.Organization)
	if !ok {
		return fmt.Errorf("repository %s not found: %w", snap.Path, apperrors.ErrRepoNotFound)
	}
	return w.Write(rec)
}

func starLabel(starred bool) string {
	if starred {
		return "starred"
	}
	return "not starred"
}
