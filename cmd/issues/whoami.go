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

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/output"
)

func newWhoamiCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated GitHub user and GraphQL rate limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runErr := runWhoami(cmd.Context(), opts.client(), w)
			if err := w.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to close output: %w", err)
			}
			return runErr
		},
	}
}

func runWhoami(ctx context.Context, client github.Client, w output.OutputWriter) error {
	viewer, err := client.Viewer(ctx)
	if err != nil {
		return err
	}
	return w.Write(output.ViewerRecord{
		Login:          viewer.Login,
		Name:           viewer.Name,
		RateLimit:      viewer.RateLimit.Limit,
		RateRemaining:  viewer.RateLimit.Remaining,
		RateLimitReset: viewer.RateLimit.ResetAt,
	})
}
