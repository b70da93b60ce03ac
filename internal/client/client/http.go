package client

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

	"github.com/dmitrijs2005/repowatch/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"

	maxBodySize = 1 << 20
)

type HTTPClient struct {
	baseURL      *url.URL
	http         *http.Client
	log          logging.Logger
	probeRetries uint64
	probeWait    time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests use this to
// point at httptest servers with custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithProbeRetries sets how often a failed IsConfigured call is retried
// and the pause between attempts.
func WithProbeRetries(n uint64, wait time.Duration) Option {
	return func(c *HTTPClient) {
		c.probeRetries = n
		if wait > 0 {
			c.probeWait = wait
		}
	}
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse server url: unsupported scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL:      u,
		http:         &http.Client{Timeout: 10 * time.Second},
		log:          logging.Discard(),
		probeRetries: 2,
		probeWait:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "backend")
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authCall(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, "login failed")
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.authCall(ctx, "/auth/register", req, "registration failed")
}

// Logout tells the backend to drop token. The response body is ignored.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/logout",
		map[string]string{AuthorizationHeader: token}, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return rejection(status, body, "logout failed")
	}
	return nil
}

// IsConfigured reports whether the backend already has settings stored.
// Network failures and 5xx answers are retried.
func (c *HTTPClient) IsConfigured(ctx context.Context) (bool, error) {
	var exist bool

	backoff := retry.WithMaxRetries(c.probeRetries, retry.NewConstant(c.probeWait))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, body, err := c.do(ctx, http.MethodGet, "/is_configured", nil, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		if status >= http.StatusInternalServerError {
			return retry.RetryableError(rejection(status, body, "configuration check failed"))
		}
		if !isSuccess(status) {
			return rejection(status, body, "configuration check failed")
		}

		var cs configStatus
		if err := json.Unmarshal(body, &cs); err != nil {
			return &ProtocolError{Message: "malformed configuration status", Err: err}
		}
		if cs.Data == nil {
			return &ProtocolError{Message: "malformed configuration status"}
		}
		exist = cs.Data.SettingsExist
		return nil
	})
	return exist, err
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) authCall(ctx context.Context, path string, payload any, fallback string) (*AuthResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, rejection(status, body, fallback)
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolError{Message: "malformed " + strings.TrimPrefix(path, "/auth/") + " response", Err: err}
	}
	if !resp.Success {
		return nil, &AuthenticationError{Status: status, Message: orDefault(resp.Message, fallback)}
	}
	return &resp, nil
}

// do sends one request and reads the whole (bounded) body. Transport-level
// failures come back as *TransientNetworkError.
func (c *HTTPClient) do(ctx context.Context, method, path string, header map[string]string, payload any) (int, []byte, error) {
	op := method + " " + path

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return 0, nil, &TransientNetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, &TransientNetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug(ctx, "request done", "op", op, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(started))
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// rejection builds an AuthenticationError from a non-2xx answer, preferring
// the backend's message over fallback.
func rejection(status int, body []byte, fallback string) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		return &AuthenticationError{Status: status, Message: orDefault(eb.Message, orDefault(eb.Error, fallback))}
	}
	return &AuthenticationError{Status: status, Message: fallback}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// IsTransient reports whether err is a network-level failure.
func IsTransient(err error) bool {
	var te *TransientNetworkError
	return errors.As(err, &te)
}
