// Copyright 2025 AscendedCode

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ons

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the API. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.beta.ons.gov.uk/v1"

// DefaultTimeout bounds a single API call when UseClient is given a
// non-positive timeout.
const DefaultTimeout = 30 * time.Second

// Client for querying the ONS dataset API. It holds no mutable state, so a
// single client is safe for concurrent calls across datasets.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// newClient creates a new client.
func newClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client for the API at URL and injects it into the
// context. A nil httpClient falls back to http.DefaultClient. Every call made
// with the client is bound by the timeout (DefaultTimeout when non-positive)
// and fails with a *TransportError rather than hanging.
func UseClient(ctx context.Context, httpClient *http.Client, timeout time.Duration) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, httpClient, timeout))
}

// endpoint resolves a path against the client's base URL. Absolute URLs, as
// found in the API's link objects, are used as is.
func (c *Client) endpoint(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

// statusError is a non-2xx response, kept internal until mapStatus converts
// it into the public error taxonomy.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	msg := strings.TrimSpace(e.body)
	if msg == "" {
		return http.StatusText(e.status)
	}
	return msg
}

// mapStatus converts a *statusError into the public taxonomy: notFound for a
// 404, *RequestError for a 400, and a retryable *TransportError for anything
// else. Errors that are not status errors pass through unchanged.
func mapStatus(err error, notFound error) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.status {
	case http.StatusNotFound:
		return notFound
	case http.StatusBadRequest:
		return &RequestError{Status: se.status, Message: se.Error()}
	default:
		return &TransportError{Err: errors.Reason("server returned %d: %s", se.status, se.Error())}
	}
}

// isTimeout reports whether err was caused by the request deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// getJSON performs a single GET request and decodes the JSON response into
// res. Non-2xx statuses are returned as *statusError for the caller to map
// onto the resource taxonomy; network, timeout and malformed-JSON failures
// become *TransportError. There are no retries.
func (c *Client) getJSON(ctx context.Context, uri string, res interface{}, query url.Values) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(uri)
	if err != nil {
		return errors.Annotate(err, "invalid URL '%s'", uri)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Annotate(err, "failed to create request for '%s'", uri)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{status: resp.StatusCode, body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return &TransportError{Err: errors.Annotate(err, "failed to decode JSON from '%s'", uri)}
	}
	return nil
}
