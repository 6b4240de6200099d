package giterror

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
)

func TestGitHubErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "401 unauthorized",
			err:  errors.New("401 Unauthorized"),
			want: true,
		},
		{
			name: "403 forbidden",
			err:  errors.New("403 Forbidden"),
			want: true,
		},
		{
			name: "bad credentials",
			err:  errors.New("Bad credentials"),
			want: true,
		},
		{
			name: "authentication required",
			err:  errors.New("Authentication required"),
			want: true,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("failed to query: %w", errors.New("401 Unauthorized")),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNotFoundError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "404 not found",
			err:  errors.New("404 Not Found"),
			want: true,
		},
		{
			name: "resource not found",
			err:  errors.New("Resource not found"),
			want: true,
		},
		{
			name: "could not resolve organization",
			err:  errors.New("Could not resolve to an Organization with the login of 'nope'."),
			want: true,
		},
		{
			name: "could not resolve repository",
			err:  errors.New("Could not resolve to a Repository with the name 'org/repo'"),
			want: true,
		},
		{
			name: "wrapped not found error",
			err:  fmt.Errorf("failed to fetch: %w", errors.New("404 Not Found")),
			want: true,
		},
		{
			name: "not a not found error",
			err:  errors.New("internal server error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limit exceeded",
			err:  errors.New("API rate limit exceeded"),
			want: true,
		},
		{
			name: "429 too many requests",
			err:  errors.New("429 Too Many Requests"),
			want: true,
		},
		{
			name: "rate limit message",
			err:  errors.New("You have exceeded a secondary rate limit"),
			want: true,
		},
		{
			name: "wrapped rate limit error",
			err:  fmt.Errorf("github api error: %w", errors.New("API rate limit exceeded")),
			want: true,
		},
		{
			name: "not a rate limit error",
			err:  errors.New("timeout occurred"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	inspector := NewErrorChainInspector(NewInspector())

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "rate limit wins over 403",
			err:  errors.New("403 Forbidden: API rate limit exceeded"),
			want: apperrors.ErrRateLimit,
		},
		{
			name: "bad credentials",
			err:  errors.New("401 Bad credentials"),
			want: apperrors.ErrInvalidToken,
		},
		{
			name: "unknown organization",
			err:  errors.New("Could not resolve to an Organization with the login of 'nope'."),
			want: apperrors.ErrRepoNotFound,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:1: connection refused"),
			want: apperrors.ErrNetworkFailure,
		},
		{
			name: "sentinel in chain",
			err:  fmt.Errorf("request: %w", apperrors.ErrNetworkFailure),
			want: apperrors.ErrNetworkFailure,
		},
		{
			name: "unclassified",
			err:  errors.New("something odd"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(inspector, tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyMessages(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name     string
		messages []string
		want     error
	}{
		{
			name:     "empty",
			messages: nil,
			want:     nil,
		},
		{
			name:     "first classified message wins",
			messages: []string{"Something went wrong", "Could not resolve to a Repository with the name 'google/nope'."},
			want:     apperrors.ErrRepoNotFound,
		},
		{
			name:     "network wording is not a query classification",
			messages: []string{"timeout while resolving field"},
			want:     nil,
		},
		{
			name:     "rate limit",
			messages: []string{"API rate limit exceeded for user ID 1."},
			want:     apperrors.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMessages(inspector, tt.messages); got != tt.want {
				t.Errorf("ClassifyMessages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:443: connection refused"),
			want: true,
		},
		{
			name: "no such host",
			err:  errors.New("dial tcp: lookup api.github.com: no such host"),
			want: true,
		},
		{
			name: "timeout",
			err:  errors.New("request timeout after 30s"),
			want: true,
		},
		{
			name: "temporary failure",
			err:  errors.New("temporary failure in name resolution"),
			want: true,
		},
		{
			name: "tls handshake error",
			err:  errors.New("tls handshake timeout"),
			want: true,
		},
		{
			name: "network unreachable",
			err:  errors.New("network is unreachable"),
			want: true,
		},
		{
			name: "wrapped network error",
			err:  fmt.Errorf("failed to connect: %w", errors.New("connection refused")),
			want: true,
		},
		{
			name: "not a network error",
			err:  errors.New("invalid json response"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorChainInspector(t *testing.T) {
	baseInspector := NewInspector()
	chainInspector := NewErrorChainInspector(baseInspector)

	tests := []struct {
		name   string
		err    error
		method string
		want   bool
	}{
		{
			name:   "auth sentinel",
			err:    apperrors.ErrInvalidToken,
			method: "auth",
			want:   true,
		},
		{
			name:   "transport error wrapping auth sentinel",
			err:    fmt.Errorf("operation failed: %w", &apperrors.TransportError{Err: apperrors.ErrInvalidToken}),
			method: "auth",
			want:   true,
		},
		{
			name:   "rate limit sentinel",
			err:    fmt.Errorf("fetch: %w", apperrors.ErrRateLimit),
			method: "ratelimit",
			want:   true,
		},
		{
			name:   "not found sentinel",
			err:    &apperrors.QueryError{Kind: apperrors.ErrRepoNotFound},
			method: "notfound",
			want:   true,
		},
		{
			name:   "network sentinel",
			err:    &apperrors.TransportError{Err: apperrors.ErrNetworkFailure},
			method: "network",
			want:   true,
		},
		{
			name:   "falls back to string checking",
			err:    errors.New("401 Unauthorized"),
			method: "auth",
			want:   true,
		},
		{
			name:   "no match in chain or string",
			err:    errors.New("some other error"),
			method: "auth",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			switch tt.method {
			case "auth":
				got = chainInspector.IsAuthError(tt.err)
			case "ratelimit":
				got = chainInspector.IsRateLimitError(tt.err)
			case "notfound":
				got = chainInspector.IsNotFoundError(tt.err)
			case "network":
				got = chainInspector.IsNetworkError(tt.err)
			}
			if got != tt.want {
				t.Errorf("ErrorChainInspector.%s() = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}
