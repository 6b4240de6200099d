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

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shurcooL/graphql"
	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/giterror"
	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

// Config is the explicit client configuration. It replaces any process-wide
// client state so tests can point the client at an httptest server and
// substitute the transport.
type Config struct {
	// Endpoint is the GraphQL endpoint, e.g. https://api.github.com/graphql.
	Endpoint string
	// Token is the static bearer credential. Empty sends no Authorization header.
	Token string
	// UserAgent defaults to version.UserAgent().
	UserAgent string
	// HTTPClient supplies the base transport and an optional timeout.
	HTTPClient *http.Client
	// MaxResponseBytes defaults to DefaultMaxResponseBytes.
	MaxResponseBytes int64
}

func (c Config) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return version.UserAgent()
}

// Request is the body posted for every catalog operation.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Response is the decoded GraphQL envelope. Data is kept raw so each
// operation decodes its own shape.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []QueryError    `json:"errors"`
}

// GraphQLClient implements the GitHub Client interface using the GraphQL API.
// It is stateless apart from its configuration and safe for concurrent use.
type GraphQLClient struct {
	endpoint   string
	httpClient *http.Client
	typed      *graphql.Client
	inspector  giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client from cfg. The client
// is configured with:
//   - Bearer authentication via oauth2 when cfg.Token is set
//   - User-Agent and X-Request-ID headers on every request
//   - Response size limiting to prevent memory issues
//   - No retries and no timeout beyond what cfg.HTTPClient sets
func NewGraphQLClient(cfg Config) *GraphQLClient {
	httpClient := newHTTPClient(cfg)

	return &GraphQLClient{
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
		typed:      graphql.NewClient(cfg.Endpoint, httpClient),
		inspector:  giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// Execute posts query with variables to the endpoint and returns the decoded
// envelope. One call is one round trip. A non-nil error is always an
// *errors.TransportError or a context error; GraphQL errors are returned in
// Response.Errors.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperrors.TransportError{
			Err: fmt.Errorf("%w: %w", apperrors.ErrNetworkFailure, err),
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.TransportError{
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        fmt.Errorf("%w: %w", apperrors.ErrNetworkFailure, err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, data)
	}

	var envelope Response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &apperrors.TransportError{
			StatusCode: resp.StatusCode,
			Message:    "invalid graphql response",
			Err:        err,
		}
	}

	return &envelope, nil
}

// statusError turns a non-2xx response into a classified TransportError.
// GitHub sends {"message": "..."} on most HTTP level failures.
func (c *GraphQLClient) statusError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		message = payload.Message
	} else {
		message = strings.TrimSpace(string(body))
		if len(message) > 200 {
			message = message[:200]
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &apperrors.TransportError{
		StatusCode: status,
		Message:    message,
		Err:        giterror.Classify(c.inspector, fmt.Errorf("status %d: %s", status, message)),
	}
}

// FetchIssues runs the getIssues query. The organization is nil when the
// server returned none (unknown login or errors); the repository inside it
// is nil when the organization exists but the repository does not.
func (c *GraphQLClient) FetchIssues(ctx context.Context, req FetchRequest) (*IssuesResponse, error) {
	variables, err := issuesVariables(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, GetIssues.Document, variables)
	if err != nil {
		return nil, err
	}

	var data struct {
		Organization *Organization `json:"organization"`
	}
	if err := decodeData(resp, &data); err != nil {
		return nil, err
	}

	return &IssuesResponse{
		Organization: data.Organization,
		Errors:       resp.Errors,
	}, nil
}

// AddStar runs the addStar mutation.
func (c *GraphQLClient) AddStar(ctx context.Context, repositoryID string) (*StarResponse, error) {
	return c.mutateStar(ctx, AddStar, "addStar", repositoryID)
}

// RemoveStar runs the removeStar mutation.
func (c *GraphQLClient) RemoveStar(ctx context.Context, repositoryID string) (*StarResponse, error) {
	return c.mutateStar(ctx, RemoveStar, "removeStar", repositoryID)
}

func (c *GraphQLClient) mutateStar(ctx context.Context, op Operation, field, repositoryID string) (*StarResponse, error) {
	variables, err := op.Bind(map[string]any{"repositoryId": repositoryID})
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, op.Document, variables)
	if err != nil {
		return nil, err
	}

	var data map[string]*struct {
		Starrable *Starrable `json:"starrable"`
	}
	if err := decodeData(resp, &data); err != nil {
		return nil, err
	}

	out := &StarResponse{Errors: resp.Errors}
	if payload := data[field]; payload != nil {
		out.Starrable = payload.Starrable
	}
	return out, nil
}

// decodeData unmarshals the data member of the envelope. A null or missing
// data member leaves v untouched.
func decodeData(resp *Response, v any) error {
	if len(resp.Data) == 0 || bytes.Equal(resp.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return &apperrors.TransportError{
			StatusCode: http.StatusOK,
			Message:    "unexpected graphql data shape",
			Err:        err,
		}
	}
	return nil
}

// Viewer retrieves the authenticated user and the GraphQL rate limit budget.
// It is the one typed query of the client and goes through shurcooL/graphql
// over the same authenticated transport.
func (c *GraphQLClient) Viewer(ctx context.Context) (*Viewer, error) {
	var query struct {
		Viewer struct {
			Login graphql.String
			Name  *graphql.String
		}
		RateLimit struct {
			Limit     graphql.Int
			Remaining graphql.Int
			ResetAt   graphql.String
		}
	}

	if err := c.typed.Query(ctx, &query, nil); err != nil {
		return nil, c.mapError(err)
	}

	v := &Viewer{
		Login: string(query.Viewer.Login),
		RateLimit: RateLimit{
			Limit:     int(query.RateLimit.Limit),
			Remaining: int(query.RateLimit.Remaining),
			ResetAt:   string(query.RateLimit.ResetAt),
		},
	}
	if query.Viewer.Name != nil {
		v.Name = string(*query.Viewer.Name)
	}
	return v, nil
}

// mapError maps errors of the typed client to our domain errors with
// actionable messages.
func (c *GraphQLClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	switch giterror.Classify(c.inspector, err) {
	case apperrors.ErrRateLimit:
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", apperrors.ErrRateLimit)
	case apperrors.ErrInvalidToken:
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", apperrors.ErrInvalidToken)
	case apperrors.ErrNetworkFailure:
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", apperrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to query viewer: %w", err)
}
