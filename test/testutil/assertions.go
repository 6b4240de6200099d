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

package testutil

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// AssertNDJSONOutput validates that a file contains valid NDJSON with the
// expected number of issue records
func AssertNDJSONOutput(t *testing.T, filePath string, expectedIssueCount int) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	return assertNDJSON(t, bufio.NewScanner(file), expectedIssueCount)
}

// AssertNDJSONString is AssertNDJSONOutput for captured stdout
func AssertNDJSONString(t *testing.T, data string, expectedIssueCount int) []map[string]interface{} {
	t.Helper()
	return assertNDJSON(t, bufio.NewScanner(strings.NewReader(data)), expectedIssueCount)
}

func assertNDJSON(t *testing.T, scanner *bufio.Scanner, expectedIssueCount int) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var issue map[string]interface{}
		if err := json.Unmarshal([]byte(line), &issue); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", len(records)+1, err)
			continue
		}

		// Validate issue has required fields
		requiredFields := []string{"repository", "position", "id", "title", "url"}
		for _, field := range requiredFields {
			if _, ok := issue[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", len(records)+1, field)
			}
		}

		records = append(records, issue)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading output: %v", err)
	}

	if len(records) != expectedIssueCount {
		t.Errorf("Expected %d issues, got %d", expectedIssueCount, len(records))
	}
	return records
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertEqual compares two values and fails if they're not equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}
