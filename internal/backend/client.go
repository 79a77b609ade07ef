// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where a locally run backend listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry budget for transient chat errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the backoff delay.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize bounds response bodies so a misbehaving backend
	// cannot exhaust memory.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB
)

// sharedHTTPClient is used for all backend requests. Connection pooling
// keeps repeated search calls off the TCP handshake path.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend failures.
var (
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrBadResponse indicates the backend replied with a body the
	// client could not interpret.
	ErrBadResponse = errors.New("malformed backend response")

	// ErrRateLimited indicates the backend rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// searchResponse is the object form of /games/search results. The backend
// may alternatively reply with a bare JSON array of titles.
type searchResponse struct {
	Games []struct {
		Title string `json:"title"`
	} `json:"games"`
}

// addGameRequest is the body for /add_game_to_context.
type addGameRequest struct {
	GameName  string `json:"game_name"`
	SessionID string `json:"session_id"`
}

// chatResponse is the reply from /chat.
type chatResponse struct {
	Answer string `json:"answer"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the answering service. Construct with NewClient; the
// zero value is not usable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a client for the backend at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
		// Generous ceiling; exists to keep keystroke-driven search from
		// hammering a struggling backend, not to throttle normal use.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithMaxRetries sets how many times a transient chat failure is retried
// after the initial attempt. Zero disables retries; the first request is
// always made.
func (c *Client) WithMaxRetries(n int) *Client {
	if n < 0 {
		n = 0
	}
	c.maxRetries = n
	return c
}

// WithRateLimit replaces the request rate limiter.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// SearchGames queries /games/search and returns the matching titles in
// backend order. A successful reply with no matches returns an empty,
// non-nil slice so callers can tell "no results" from failure.
func (c *Client) SearchGames(ctx context.Context, query string) ([]string, error) {
	endpoint := c.baseURL + "/games/search?q=" + url.QueryEscape(query)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return parseSearchBody(body)
}

// parseSearchBody accepts both response shapes the backend is known to
// produce: {"games": [{"title": ...}]} and a bare ["title", ...] array.
func parseSearchBody(body []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var titles []string
		if err := json.Unmarshal(trimmed, &titles); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		if titles == nil {
			titles = []string{}
		}
		return titles, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	titles := make([]string, 0, len(resp.Games))
	for _, g := range resp.Games {
		titles = append(titles, g.Title)
	}
	return titles, nil
}

// AddGameToContext tells the backend which rulebook the session is about.
// The backend treats this as fire-and-forget; any 2xx status is success
// and the body is ignored.
func (c *Client) AddGameToContext(ctx context.Context, gameName, sessionID string) error {
	reqBody, err := json.Marshal(addGameRequest{GameName: gameName, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/add_game_to_context", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, nil)
	}
	return nil
}

// Chat sends the user's question for the given session and returns the
// assistant's answer. Transient failures (5xx, rate limiting, transport
// errors) are retried with exponential backoff; context cancellation is
// honored between attempts.
func (c *Client) Chat(ctx context.Context, userInput, sessionID string) (string, error) {
	endpoint := c.baseURL + "/chat?user_input=" + url.QueryEscape(userInput) +
		"&session_id=" + url.QueryEscape(sessionID)

	// maxRetries counts retries beyond the first attempt, so a budget of
	// zero still issues one request.
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		body, err := c.get(ctx, endpoint)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return "", err
		}

		var resp chatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		return resp.Answer, nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// get performs a rate-limited GET and returns the bounded body for any
// 2xx status.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransport(err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// wrapTransport maps transport-level failures to ErrUnavailable while
// keeping context cancellation visible to errors.Is.
func wrapTransport(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// statusError converts a non-2xx reply into a typed error.
func statusError(status int, body []byte) error {
	if status == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{Status: status, Message: msg}
}

// isRetryable reports whether the chat call should be attempted again.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	return false
}

// backoff returns the delay before retry number attempt (1-based).
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
