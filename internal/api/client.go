// Package api is the HTTP client for the VitalMetrics data source.
//
// Every method returns a *Error on failure so callers can branch on the
// failure kind with errors.Is against the domain sentinels instead of
// parsing messages.
package api

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

	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is where the data source lives unless configured otherwise.
	DefaultBaseURL = "http://localhost:8787/api"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

// TokenReader supplies the current bearer token. It is consulted on every
// authenticated request and never cached.
type TokenReader interface {
	Get() (string, error)
}

// Client talks to the data source. Unauthenticated calls (login) go through
// a plain HTTP client; authenticated calls go through an oauth2 transport
// that attaches the stored token.
type Client struct {
	baseURL string
	tokens  TokenReader
	anon    *http.Client
	authed  *http.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTransport sets the underlying round tripper, e.g. an interceptor.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// New creates a Client that reads bearer tokens from tokens.
func New(tokens TokenReader, opts ...Option) *Client {
	o := options{
		baseURL:   DefaultBaseURL,
		timeout:   defaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		tokens:  tokens,
		anon:    &http.Client{Timeout: o.timeout, Transport: o.transport},
		authed: &http.Client{
			Timeout: o.timeout,
			Transport: &oauth2.Transport{
				Source: sessionTokenSource{tokens: tokens},
				Base:   o.transport,
			},
		},
	}
}

// BaseURL returns the data source root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- token source ---

// tokenError marks a failure to obtain a token so it can be told apart
// from network errors after net/http wraps it.
type tokenError struct {
	err error
}

func (e *tokenError) Error() string { return "no session token: " + e.err.Error() }
func (e *tokenError) Unwrap() error { return e.err }

type sessionTokenSource struct {
	tokens TokenReader
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	if s.tokens == nil {
		return nil, &tokenError{err: errors.New("no token store configured")}
	}
	tok, err := s.tokens.Get()
	if err != nil {
		return nil, &tokenError{err: err}
	}
	if tok == "" {
		return nil, &tokenError{err: errors.New("empty token")}
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// --- HTTP helpers ---

type request struct {
	op     string
	method string
	path   string
	body   any
	authed bool
	// login marks the credential check, where a 401 means wrong
	// credentials rather than a stale session.
	login bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return transportError(r.op, fmt.Errorf("failed to encode request: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader)
	if err != nil {
		return transportError(r.op, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.anon
	if r.authed {
		hc = c.authed
	}

	resp, err := hc.Do(req)
	if err != nil {
		var te *tokenError
		if errors.As(err, &te) {
			return &Error{Kind: KindUnauthenticated, Op: r.op, Err: te.err}
		}
		return transportError(r.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(r.op, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(r, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return transportError(r.op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// statusError maps a non-2xx response to a typed Error, keeping the
// server's message and code when the body is a JSON error envelope.
func statusError(r request, status int, data []byte) *Error {
	var body ErrorBody
	_ = json.Unmarshal(data, &body)

	e := &Error{
		Kind:    KindTransport,
		Op:      r.op,
		Status:  status,
		Code:    body.Code,
		Message: body.Message,
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	if status == http.StatusUnauthorized {
		if r.login {
			e.Kind = KindInvalidCredentials
		} else {
			e.Kind = KindUnauthenticated
		}
	}
	return e
}

// --- endpoints ---

// Login exchanges credentials for a token. It does not store the token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	const op = "login"
	var out LoginResponse
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/auth/login",
		body:   LoginRequest{Email: email, Password: password},
		login:  true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success || out.Token == "" {
		return nil, transportError(op, errors.New("response did not include a token"))
	}
	return &out, nil
}

// Logout notifies the data source. The bearer token is attached when one
// is stored; the call is idempotent on the server side.
func (c *Client) Logout(ctx context.Context) error {
	authed := false
	if c.tokens != nil {
		if tok, err := c.tokens.Get(); err == nil && tok != "" {
			authed = true
		}
	}
	var out ackEnvelope
	return c.do(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/logout",
		authed: authed,
	}, &out)
}

// CurrentUser returns the profile for the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	const op = "current user"
	var out userEnvelope
	if err := c.do(ctx, request{op: op, method: http.MethodGet, path: "/auth/me", authed: true}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, transportError(op, errors.New("data source reported failure"))
	}
	return &out.User, nil
}

// Dashboard fetches the summary cards and page metrics.
func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	const op = "dashboard"
	var out dashboardEnvelope
	if err := c.do(ctx, request{op: op, method: http.MethodGet, path: "/dashboard", authed: true}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, transportError(op, errors.New("data source reported failure"))
	}
	return &out.Data, nil
}

// PageMetrics fetches per-page samples, optionally narrowed server-side to
// pages containing page.
func (c *Client) PageMetrics(ctx context.Context, page string) ([]vitals.PageMetric, error) {
	const op = "page metrics"
	path := "/metrics"
	if page != "" {
		path += "?page=" + url.QueryEscape(page)
	}

	var out metricsEnvelope
	if err := c.do(ctx, request{op: op, method: http.MethodGet, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, transportError(op, errors.New("data source reported failure"))
	}
	return out.Data, nil
}
