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

// Package config types define the configuration structures used throughout
// sirseer-issues. These types represent settings that can be loaded from
// YAML configuration files, a .env file, environment variables, or
// command-line flags.
package config

// Output formats accepted by defaults.output_format and --format.
const (
	FormatText   = "text"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// Config represents the complete configuration for sirseer-issues.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

// GitHubConfig contains the GraphQL endpoint and where the bearer token
// comes from. A custom endpoint allows GitHub Enterprise deployments.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	EnvFile         string `yaml:"env_file"`
}

// DefaultsConfig contains defaults applied when the command line does not
// say otherwise.
type DefaultsConfig struct {
	// Repository is the "org/repo" path loaded when browse starts without one.
	Repository   string `yaml:"repository"`
	OutputFormat string `yaml:"output_format"`
}

// LogConfig controls structured logging. File is only used while the
// terminal UI owns stdout and stderr; empty discards logs in that mode.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config with defaults suitable for github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
			EnvFile:         ".env",
		},
		Defaults: DefaultsConfig{
			OutputFormat: FormatText,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
