// Package api is a typed client for the remote blog REST API.
// Every call takes a context; the bearer token travels in the context so the
// caller decides per request which session it speaks for.
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
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single request when the caller sets no deadline
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20
)

type tokenKey struct{}

// WithToken returns a context whose requests carry token as a bearer credential.
// An empty token leaves the request unauthenticated.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored in ctx
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the blog API over HTTP
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is never
// modified; WithTimeout applies to a copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the overall timeout for every request, regardless of the
// order it is given in relative to WithHTTPClient
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the API root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// request describes one API call
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// response is the raw outcome of a call that reached the server
type response struct {
	status int
	body   []byte
}

// send performs the call and records metrics. HTTP error statuses are returned as
// a response, not an error; callers decide how to classify them.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	start := time.Now()
	resp, err := c.roundTrip(ctx, r)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "transport_error"
		RequestErrors.WithLabelValues(r.op, KindTransport.String()).Inc()
	case resp.status >= http.StatusBadRequest:
		outcome = "http_error"
	}
	RequestDuration.WithLabelValues(r.op, outcome).Observe(time.Since(start).Seconds())

	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, r request) (*response, error) {
	target := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, transportError("encode request", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return nil, transportError("build request", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("API request failed",
			"request_id", requestID,
			"operation", r.op,
			"error", err,
		)
		return nil, transportError("request failed", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError("read response", err)
	}

	c.logger.Debug("API request completed",
		"request_id", requestID,
		"operation", r.op,
		"method", r.method,
		"path", target.Path,
		"status", res.StatusCode,
	)

	return &response{status: res.StatusCode, body: data}, nil
}

// do performs the call, turns HTTP error statuses into *Error and decodes a
// successful body into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if resp.status >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		RequestErrors.WithLabelValues(r.op, apiErr.Kind.String()).Inc()
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return transportError("decode response", err)
	}
	return nil
}

// errorBody is the union of error shapes the API produces
type errorBody struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

func decodeError(resp *response) *Error {
	var body errorBody
	_ = json.Unmarshal(resp.body, &body)
	return errorFromBody(resp.status, body)
}

func errorFromBody(status int, body errorBody) *Error {
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	if len(body.Errors) > 0 {
		return &Error{Kind: KindValidation, Status: status, Message: msg, Fields: body.Errors}
	}
	return &Error{Kind: KindGeneral, Status: status, Message: msg}
}
