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

// Package main implements the sirseer-issues command-line interface.
// It browses the open issues of a GitHub repository through the GraphQL
// API, either interactively or as a stream of records.
//
// The CLI supports:
//   - An interactive terminal browser with paging and star toggling
//   - Listing open issues as text, NDJSON or YAML (first page, N pages or --all)
//   - Starring and unstarring a repository
//   - Reporting the authenticated viewer and its rate limit
//
// Usage:
//
//	sirseer-issues browse [org/repo]
//	sirseer-issues issues <org>/<repo> [flags]
//	sirseer-issues star <org>/<repo>
//	sirseer-issues unstar <org>/<repo>
//	sirseer-issues whoami
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-issues issues google/tink --all --format ndjson --output issues.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
