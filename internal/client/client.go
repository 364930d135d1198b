// Package client is the Go client for the storefront auth API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"
)

// Request timeouts: one attempt at DefaultTimeout, and a single retry at
// RetryTimeout when the first attempt timed out.
const (
	DefaultTimeout = 5 * time.Second
	RetryTimeout   = 10 * time.Second
)

// ErrUnreachable is returned when no response came back from the server.
var ErrUnreachable = errors.New("server unreachable")

// MsgUnreachable is what a user is told when ErrUnreachable occurs.
const MsgUnreachable = "Unable to reach the server. Please check your internet connection."

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the /api/auth endpoints.
type Client struct {
	baseURL      string
	http         *http.Client
	timeout      time.Duration
	retryTimeout time.Duration
	token        string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeouts overrides the first-attempt and retry timeouts.
func WithTimeouts(first, retry time.Duration) Option {
	return func(c *Client) {
		c.timeout = first
		c.retryTimeout = retry
	}
}

// WithToken attaches a bearer token to authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the server at baseURL, e.g. http://localhost:8000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		timeout:      DefaultTimeout,
		retryTimeout: RetryTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, phone, password string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", model.LoginRequest{Phone: phone, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server to drop its cookie. The token itself stays valid
// until it expires, so callers must forget it locally.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Profile fetches the user the token belongs to.
func (c *Client) Profile(ctx context.Context) (*model.UserResponse, error) {
	var out model.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	status, data, err := c.attempt(ctx, method, path, body, c.timeout)
	if err != nil && isTimeout(err) && ctx.Err() == nil {
		status, data, err = c.attempt(ctx, method, path, body, c.retryTimeout)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w (%v)", ErrUnreachable, err)
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{Status: status}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Request failed (status %d)", status)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// attempt performs one request bounded by timeout and returns the raw
// status and body. Only transport failures are returned as errors.
func (c *Client) attempt(ctx context.Context, method, path string, body []byte, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
