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

package integration

import (
	"os"
	"testing"

	"github.com/sirseerhq/sirseer-issues/test/testutil"
)

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func TestCLI_InvalidRepoFormat(t *testing.T) {
	skipUnlessIntegration(t)

	tests := []struct {
		name string
		repo string
	}{
		{name: "missing slash", repo: "invalid-repo-format"},
		{name: "too many slashes", repo: "org/repo/extra"},
		{name: "empty owner", repo: "/repo"},
		{name: "empty repo", repo: "org/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunCLI(t, []string{"issues", tt.repo}, nil)
			testutil.AssertCLIError(t, result, "invalid repository format")
			testutil.AssertExitCode(t, result, 1)
		})
	}
}

func TestCLI_MissingToken(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, testutil.NewFakeRepository("google", "tink", 3))
	result := testutil.RunCLI(t, []string{"issues", "google/tink"}, map[string]string{
		"GITHUB_GRAPHQL_ENDPOINT": server.GraphQLURL(),
	})

	testutil.AssertCLIError(t, result, "Bad credentials")
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertContainsString(t, result.Stderr, "no GitHub token configured")
}

func TestCLI_HelpCommand(t *testing.T) {
	skipUnlessIntegration(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "main help", args: []string{"--help"}, want: "Browse the open issues of GitHub repositories"},
		{name: "issues help", args: []string{"issues", "--help"}, want: "--pages"},
		{name: "browse help", args: []string{"browse", "--help"}, want: "fetch the next five issues"},
		{name: "star help", args: []string{"star", "--help"}, want: "reconciled stargazer count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunCLI(t, tt.args, nil)
			testutil.AssertCLISuccess(t, result)
			testutil.AssertContainsString(t, result.Stdout, tt.want)
		})
	}
}

func TestCLI_Version(t *testing.T) {
	skipUnlessIntegration(t)

	result := testutil.RunCLI(t, []string{"--version"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "sirseer-issues version")
}

func TestCLI_StarRoundTrip(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, testutil.NewFakeRepository("google", "tink", 3))

	result := testutil.RunWithMockServer(t, server.GraphQLURL(), "star", "google/tink", "--format", "ndjson")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, `"viewer_has_starred":true`)
	testutil.AssertContainsString(t, result.Stdout, `"stargazers":11`)

	// Starring again is a no-op.
	result = testutil.RunWithMockServer(t, server.GraphQLURL(), "star", "google/tink")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stderr, "google/tink is already starred")

	result = testutil.RunWithMockServer(t, server.GraphQLURL(), "unstar", "google/tink", "--format", "ndjson")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, `"stargazers":10`)

	state, _ := server.Repository("google", "tink")
	testutil.AssertEqual(t, state.ViewerHasStarred, false)
	testutil.AssertEqual(t, len(server.GetRequestHistory()), 5)
}

func TestCLI_Whoami(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t)
	result := testutil.RunWithMockServer(t, server.GraphQLURL(), "whoami")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "octocat (The Octocat)")
}
