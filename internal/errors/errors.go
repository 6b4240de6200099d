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

// Package errors defines sentinel errors and error types for consistent error
// handling across the application. Sentinels map to specific exit codes in the
// CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the organization or repository does not exist
	// or is not accessible. Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrQuery indicates the API returned a GraphQL envelope with errors.
	ErrQuery = errors.New("graphql query failed")

	// ErrInvalidState indicates an operation was applied to session state
	// that cannot support it, such as a continuation fetch with nothing loaded.
	ErrInvalidState = errors.New("invalid state")

	// ErrActionPending indicates the same action already has a request in flight.
	ErrActionPending = errors.New("action already in progress")

	// ErrNoMorePages indicates a fetch-more was requested after the last page.
	ErrNoMorePages = errors.New("no more issues to fetch")

	// ErrNothingLoaded indicates an action needs a loaded repository.
	ErrNothingLoaded = errors.New("no repository loaded")
)

// TransportError is a network or HTTP failure that happened before a GraphQL
// envelope was obtained.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Message is the server supplied message, if any.
	Message string
	// Err is the classified sentinel or the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("transport error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// QueryError carries the messages of a GraphQL errors array. It matches
// ErrQuery and, when set, the classified Kind sentinel.
type QueryError struct {
	Messages []string
	Kind     error
}

func (e *QueryError) Error() string {
	if len(e.Messages) == 0 {
		return ErrQuery.Error()
	}
	return ErrQuery.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *QueryError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrQuery}
	}
	return []error{ErrQuery, e.Kind}
}
