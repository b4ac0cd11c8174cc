package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mmcdole/campus/internal/domain"
)

const defaultTimeout = 30 * time.Second

// protectedMarkers are path fragments whose requests carry the bearer token
var protectedMarkers = []string{"/users", "/auth/me", "/feedback/", "/courses/"}

// TokenSource supplies the current session token
type TokenSource interface {
	Token() (string, bool)
}

// Client is the REST client for the course marketplace backend
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates a new API client. A zero timeout uses the default.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the backend root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized registers fn to run when a request that carried the token
// is rejected with 401 or 403
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// request describes a single backend call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// auth forces the bearer token even outside the protected paths
	auth bool
}

func isProtected(path string) bool {
	for _, m := range protectedMarkers {
		if strings.Contains(path, m) {
			return true
		}
	}
	return false
}

// do performs the request and returns the raw response body
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, r.query.Encode())
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	withToken := false
	if r.auth || isProtected(r.path) {
		if token, ok := c.tokens.Token(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			withToken = true
		}
	}

	c.logger.Debug("api request", "method", r.method, "url", reqURL, "authorized", withToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("api request failed", "method", r.method, "path", r.path, "error", err)
		return nil, errors.Wrapf(domain.ErrServerOffline, "%s %s", r.method, r.path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := &Error{
		Method:  r.method,
		Path:    r.path,
		Status:  resp.StatusCode,
		Message: serverMessage(data),
	}

	if withToken && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		apiErr.SessionExpired = true
		c.logger.Warn("session rejected by server", "status", resp.StatusCode, "path", r.path)
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook()
		}
		return nil, apiErr
	}

	c.logger.Warn("api error response",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"message", apiErr.Message,
	)
	return nil, apiErr
}

// getJSON performs a GET and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(data, out)
}

func decode(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error body.
// JSON bodies use "message" or "error"; anything else is taken as text.
func serverMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return text(trimmed)
}

// text decodes a plain-text body, tolerating a JSON-quoted string
func text(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
