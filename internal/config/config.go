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

// Package config provides configuration management for sirseer-issues with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (including those loaded from a .env file)
//  3. Configuration file
//  4. Built-in defaults
//
// The .env file never overrides variables already present in the process
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-issues.yaml (current directory)
//   - .sirseer-issues.yml (current directory)
//   - ~/.sirseer/issues.yaml
//   - ~/.sirseer/issues.yml
//
// After the file, the .env file is loaded into the process environment and
// environment overrides are applied.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".sirseer-issues.yaml",
			".sirseer-issues.yml",
			filepath.Join(os.Getenv("HOME"), ".sirseer", "issues.yaml"),
			filepath.Join(os.Getenv("HOME"), ".sirseer", "issues.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if envFile := os.Getenv("SIRSEER_ENV_FILE"); envFile != "" {
		cfg.GitHub.EnvFile = envFile
	}
	cfg.GitHub.EnvFile = expandPath(cfg.GitHub.EnvFile)
	if err := loadEnvFile(cfg.GitHub.EnvFile); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadEnvFile loads KEY=value pairs into the process environment. A missing
// file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if repo := os.Getenv("SIRSEER_DEFAULT_REPOSITORY"); repo != "" {
		cfg.Defaults.Repository = repo
	}
	if format := os.Getenv("SIRSEER_OUTPUT_FORMAT"); format != "" {
		cfg.Defaults.OutputFormat = strings.ToLower(format)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if file := os.Getenv("SIRSEER_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Token returns the bearer token, preferring the flag value over the
// environment variable named by github.token_env.
func (c *Config) Token(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// ClientConfig builds the explicit client configuration passed to
// github.NewGraphQLClient.
func (c *Config) ClientConfig(token string) github.Config {
	return github.Config{
		Endpoint:  c.GitHub.GraphQLEndpoint,
		Token:     token,
		UserAgent: version.UserAgent(),
	}
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration and applying flag overrides to catch
// invalid settings early.
func (c *Config) Validate() error {
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	u, err := url.Parse(c.GitHub.GraphQLEndpoint)
	if err != nil {
		return fmt.Errorf("invalid GitHub GraphQL endpoint %q: %w", c.GitHub.GraphQLEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GitHub GraphQL endpoint must be an http(s) URL, got: %s", c.GitHub.GraphQLEndpoint)
	}

	switch c.Defaults.OutputFormat {
	case FormatText, FormatNDJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, ndjson or yaml)", c.Defaults.OutputFormat)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.Log.Level)
	}

	return nil
}
