// Package http implements the platform's HTTP API: the authenticated
// course generation stream and the course read endpoints.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance checks.
var (
	_ fluentify.Opener       = (*Client)(nil)
	_ fluentify.CourseLister = (*Client)(nil)
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	generatePath = "/api/courses/generate-stream"
	coursesPath  = "/api/courses"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token returns the token.
func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client talks to the platform API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	requestID  func() string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestID sets the generator for X-Request-Id header values.
func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// New creates a [Client] for the API at baseURL. An empty baseURL selects
// [DefaultBaseURL].
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: http.DefaultClient,
		requestID:  uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open starts a course generation stream for params. The returned body
// yields the raw event stream; cancelling ctx aborts pending reads.
func (c *Client) Open(ctx context.Context, params fluentify.Params) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("language", params.Language)
	q.Set("expectedDuration", params.ExpectedDuration)
	q.Set("expertise", params.Expertise)

	req, err := c.newRequest(ctx, generatePath+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseStatusError(resp)
	}
	return resp.Body, nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", c.requestID())
	return req, nil
}

// getJSON issues an authenticated GET and decodes the data field of the
// response envelope into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.newRequest(ctx, path)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return parseStatusError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("http: decode %s: %w", path, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("http: %s: response has no data", path)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("http: decode %s: %w", path, err)
	}
	return nil
}

// envelope is the platform's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}
