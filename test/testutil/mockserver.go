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

// Package testutil provides common test helpers for sirseer-issues
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requests int32
}

// RequestCount returns the number of requests received so far
func (s *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requests))
}

// GraphQLURL is the endpoint to configure clients with.
func (s *MockServer) GraphQLURL() string {
	return s.URL + "/graphql"
}

// NewMockServer creates a basic mock server that responds to GraphQL requests
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requests, 1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewIssuesServer creates a mock server that answers every request with
// the given getIssues responses in order, repeating the last one.
func NewIssuesServer(t *testing.T, responses ...map[string]interface{}) *MockServer {
	t.Helper()
	if len(responses) == 0 {
		responses = []map[string]interface{}{GenerateIssuesResponse(1, 5, false)}
	}

	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		i := s.RequestCount() - 1
		if i >= len(responses) {
			i = len(responses) - 1
		}
		writeJSON(w, http.StatusOK, responses[i])
	})
	return s
}

// NewRateLimitServer creates a mock server that simulates rate limiting
// for the first successAfterCount requests
func NewRateLimitServer(t *testing.T, retryAfter, successAfterCount int) *MockServer {
	t.Helper()

	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if s.RequestCount() <= successAfterCount {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeJSON(w, http.StatusForbidden, map[string]string{
				"message": "API rate limit exceeded for user ID 1.",
			})
			return
		}

		// Success response after rate limit
		writeJSON(w, http.StatusOK, GenerateIssuesResponse(1, 5, false))
	})
	return s
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// NewTransientErrorServer creates a mock server that fails N times then succeeds
func NewTransientErrorServer(t *testing.T, failCount, errorCode int) *MockServer {
	t.Helper()

	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if s.RequestCount() <= failCount {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}

		// Success after failures
		writeJSON(w, http.StatusOK, GenerateIssuesResponse(1, 5, false))
	})
	return s
}

// NewMalformedServer creates a mock server that cuts its JSON response short
func NewMalformedServer(t *testing.T) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"organization": {"repository": {"issues": {"edges": [`))
	})
}

// GenerateIssuesResponse generates a google/tink getIssues response with
// issues startNum through endNum
func GenerateIssuesResponse(startNum, endNum int, hasMore bool) map[string]interface{} {
	b := NewGraphQLResponseBuilder()
	for i := startNum; i <= endNum; i++ {
		b.WithIssues(NewIssueBuilder("google", "tink", i).Build())
	}
	if endNum >= startNum {
		b.WithPagination(hasMore, fmt.Sprintf("cursor%d", endNum))
	}
	return b.Build()
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
