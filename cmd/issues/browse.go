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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/internal/logging"
	"github.com/sirseerhq/sirseer-issues/internal/tui"
)

func newBrowseCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [<org>/<repo>]",
		Short: "Browse open issues in an interactive terminal UI",
		Long: `Open an interactive browser for the open issues of a repository.

The repository argument is optional. Without it the configured
defaults.repository is loaded, or the UI starts with an empty input field.

Keys:
  enter   load the typed repository
  m       fetch the next five issues
  s       star or unstar the repository
  o       open the selected issue in a web browser
  q       quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfg.Defaults.Repository
			if len(args) == 1 {
				path = args[0]
			}

			// The UI owns the terminal, so logs move to the configured file.
			logFile, err := logging.OpenFile(opts.cfg.Log.File)
			if err != nil {
				return err
			}
			defer logFile.Close()
			level, _ := logging.ParseLevel(opts.cfg.Log.Level)
			logging.SetupLogger(logFile, level)

			return tui.Run(cmd.Context(), opts.client(), path)
		},
	}
}
