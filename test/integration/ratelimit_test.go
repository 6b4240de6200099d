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
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/sirseerhq/sirseer-issues/test/testutil"
)

func writeResponse(w http.ResponseWriter, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// TestRateLimitHandling verifies that an exhausted budget fails fast with
// exit code 2 instead of waiting.
func TestRateLimitHandling(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewRateLimitServer(t, 60, 1)

	result := testutil.RunWithMockServer(t, server.GraphQLURL(), "issues", "google/tink")
	testutil.AssertCLIError(t, result, "rate limit exceeded")
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertEqual(t, server.RequestCount(), 1)

	// The next invocation succeeds; nothing was retried in between.
	result = testutil.RunWithMockServer(t, server.GraphQLURL(), "issues", "google/tink", "--format", "ndjson")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertNDJSONString(t, result.Stdout, 5)
	testutil.AssertEqual(t, server.RequestCount(), 2)
}

// TestRateLimit_ExhaustedMidFetch verifies that pages fetched before the
// budget ran out are kept.
func TestRateLimit_ExhaustedMidFetch(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, testutil.NewFakeRepository("google", "tink", 12))
	server.SetRateLimit(2)

	outputFile := filepath.Join(t.TempDir(), "issues.ndjson")
	result := testutil.RunWithMockServer(t, server.GraphQLURL(),
		"issues", "google/tink", "--all", "--format", "ndjson", "--output", outputFile)

	testutil.AssertCLIError(t, result, "rate limit exceeded")
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertNDJSONOutput(t, outputFile, 10)
	testutil.AssertEqual(t, len(server.GetRequestHistory()), 3)
}

func TestRateLimit_Whoami(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t)
	server.SetRateLimit(100)

	result := testutil.RunWithMockServer(t, server.GraphQLURL(), "whoami", "--format", "ndjson")
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, `"rate_remaining":99`)
}
