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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/internal/config"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/logging"
	"github.com/sirseerhq/sirseer-issues/internal/output"
	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

// globalOptions holds the persistent flags and what PersistentPreRunE
// derives from them. Subcommands read cfg and token only after it ran.
type globalOptions struct {
	configPath string
	token      string
	logLevel   string
	format     string
	outputFile string

	cfg       *config.Config
	newClient func(cfg github.Config) github.Client
}

func defaultClientFactory(cfg github.Config) github.Client {
	return github.NewGraphQLClient(cfg)
}

func newRootCommand() *cobra.Command {
	return newRootCommandWithClient(defaultClientFactory)
}

// newRootCommandWithClient builds the command tree. Tests pass a factory
// returning a mock client.
func newRootCommandWithClient(newClient func(cfg github.Config) github.Client) *cobra.Command {
	opts := &globalOptions{newClient: newClient}

	rootCmd := &cobra.Command{
		Use:   "sirseer-issues",
		Short: "Browse the open issues of GitHub repositories",
		Long: `SirSeer Issues browses the open issues of a GitHub repository through
the GraphQL API. Issues are loaded five at a time, newest first, and more
pages are appended on request. The repository can be starred or unstarred
from the same session.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file (default: .sirseer-issues.yaml)")
	flags.StringVar(&opts.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.format, "format", "", "Output format: text, ndjson or yaml")
	flags.StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(
		newBrowseCommand(opts),
		newIssuesCommand(opts),
		newStarCommand(opts, true),
		newStarCommand(opts, false),
		newWhoamiCommand(opts),
	)

	return rootCmd
}

// load reads the configuration, applies flag overrides and validates the
// result. Logging goes to stderr until a command redirects it.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.format != "" {
		cfg.Defaults.OutputFormat = o.format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.SetupLogger(cmd.ErrOrStderr(), level)

	o.cfg = cfg
	return nil
}

// client builds the GitHub client from the loaded configuration.
func (o *globalOptions) client() github.Client {
	token := o.cfg.Token(o.token)
	if token == "" {
		logging.Warn("no GitHub token configured; requests are sent unauthenticated",
			"token_env", o.cfg.GitHub.TokenEnv)
	} else {
		logging.Debug("using GitHub token", "token", logging.MaskSensitive(token))
	}
	return o.newClient(o.cfg.ClientConfig(token))
}

// writer opens the record writer selected by --format and --output.
func (o *globalOptions) writer(stdout io.Writer) (*output.Writer, error) {
	format := o.cfg.Defaults.OutputFormat
	if o.outputFile == "" {
		return output.New(format, stdout)
	}
	return output.NewFileWriter(format, o.outputFile)
}
