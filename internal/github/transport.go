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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultMaxResponseBytes caps a single response body.
const DefaultMaxResponseBytes int64 = 10 * 1024 * 1024

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// headerTransport sets identification headers, logs each round trip and
// applies the response size limit. Authentication is layered on top of it
// by oauth2.Transport.
type headerTransport struct {
	userAgent string
	limit     int64
	base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		slog.Debug("graphql round trip failed",
			"request_id", requestID,
			"url", req.URL.String(),
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}

	slog.Debug("graphql round trip",
		"request_id", requestID,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      t.limit,
		}
	}

	return resp, nil
}

// newHTTPClient builds the authenticated client shared by Execute and the
// typed viewer query. The bearer header is only attached when a token is
// configured; without one GitHub rejects the request and the caller sees
// that rejection.
func newHTTPClient(cfg Config) *http.Client {
	base := http.DefaultTransport
	var timeout time.Duration
	if cfg.HTTPClient != nil {
		if cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		timeout = cfg.HTTPClient.Timeout
	}

	limit := cfg.MaxResponseBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}

	var transport http.RoundTripper = &headerTransport{
		userAgent: cfg.userAgent(),
		limit:     limit,
		base:      base,
	}
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   transport,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
