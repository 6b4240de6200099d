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

// Package github provides a client for GitHub's GraphQL API covering the
// three fixed documents of the query catalog: fetching an organization's
// repository with a page of open issues, and adding or removing a star.
//
// The package includes:
//   - A Client interface used by the session and the commands
//   - GraphQLClient, which posts catalog documents verbatim and decodes the
//     {data, errors} envelope, plus a typed viewer query built with
//     shurcooL/graphql
//   - An explicit Config value holding the endpoint and bearer token
//   - Mock client for testing
//
// Basic usage:
//
//	client := github.NewGraphQLClient(github.Config{
//	    Endpoint: "https://api.github.com/graphql",
//	    Token:    os.Getenv("GITHUB_TOKEN"),
//	})
//	resp, err := client.FetchIssues(ctx, github.InitialFetch("google", "tink"))
//	if err != nil {
//	    // No envelope was obtained
//	}
//	if len(resp.Errors) > 0 {
//	    // The API rejected the query
//	}
package github
