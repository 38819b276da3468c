// Package client is the HTTP adapter every FloraBase call goes through.
//
// RESPONSIBILITIES:
//   - join request paths onto the configured API base URL
//   - encode bodies as JSON, or as multipart/form-data when asked to
//   - attach "Authorization: Bearer <token>" whenever the session has a token
//   - return a uniform Result for every HTTP answer, including 4xx and 5xx
//   - report transport failures (no HTTP answer at all) as apperror.ErrNetwork
//
// An HTTP error status is NOT a Go error of the call: Get/Post/Put/Delete
// return (*Result, nil) and the caller decides. Result.Err converts a non-OK
// result into the apperror taxonomy when the caller wants an error.
package client

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

	"golang.org/x/oauth2"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/transport"
)

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 10 << 20

// Credentials is the view of the session the adapter needs.
type Credentials interface {
	// Token returns the bearer token, if any.
	Token() (string, bool)
	// AuthFailed is called after a request that carried a token was
	// rejected with 401 or 403.
	AuthFailed()
}

// Client sends requests to the FloraBase REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	creds   Credentials
	logger  *slog.Logger
}

// Option configures a Client in New.
type Option func(*Client)

// WithCredentials attaches the session whose token is sent on every request.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) { c.creds = creds }
}

// WithHTTPClient replaces the underlying *http.Client. The request ID and
// logging decorators are still installed around its transport, and a
// WithTimeout value wins over hc.Timeout whatever the option order.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		c.http = &copied
	}
}

// WithTimeout sets the per-request timeout (default 15s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a Client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}

	c.http.Transport = transport.Chain(c.http.Transport,
		transport.RequestID,
		transport.Logger(logger),
	)

	return c, nil
}

// Result is the uniform outcome of a request that received an HTTP answer.
type Result struct {
	OK           bool            // status was 2xx
	Data         json.RawMessage // response body (2xx only)
	ErrorMessage string          // backend-provided message (non-2xx only)
	StatusCode   int
}

// Decode unmarshals the response body into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("client: empty response body (status %d)", r.StatusCode)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("client: decoding response: %w", err)
	}
	return nil
}

// Err returns nil for an OK result and the matching *apperror.AppError otherwise.
func (r *Result) Err() error {
	if r.OK {
		return nil
	}
	return apperror.FromStatus(r.StatusCode, r.ErrorMessage)
}

type request struct {
	query     url.Values
	multipart bool
}

// RequestOption tunes a single call.
type RequestOption func(*request)

// Query adds URL query parameters.
func Query(v url.Values) RequestOption {
	return func(r *request) { r.query = v }
}

// Multipart encodes the body as multipart/form-data. The body must then be
// a map[string]any (see encodeMultipart for the accepted value types).
func Multipart() RequestOption {
	return func(r *request) { r.multipart = true }
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Result, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Result, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends one request. The returned error is non-nil only when no HTTP
// answer was obtained (or the request could not be built).
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Result, error) {
	var ro request
	for _, opt := range opts {
		opt(&ro)
	}

	reader, contentType, err := encodeBody(body, ro.multipart)
	if err != nil {
		return nil, fmt.Errorf("client: encoding %s %s body: %w", method, path, err)
	}

	u := c.baseURL.JoinPath(path)
	if len(ro.query) > 0 {
		u.RawQuery = ro.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("client: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	withToken := c.attachToken(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.Network(fmt.Errorf("reading response body: %w", err))
	}

	result := &Result{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
	}
	if result.OK {
		result.Data = raw
		return result, nil
	}

	result.ErrorMessage = errorMessage(raw)
	c.logger.Debug("request rejected",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("message", result.ErrorMessage),
	)

	if withToken && c.creds != nil &&
		(resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.creds.AuthFailed()
	}

	return result, nil
}

// attachToken sets the bearer header and reports whether it did.
func (c *Client) attachToken(req *http.Request) bool {
	if c.creds == nil {
		return false
	}
	tok, ok := c.creds.Token()
	if !ok || tok == "" {
		return false
	}
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
	return true
}

func encodeBody(body any, multipart bool) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	if multipart {
		fields, ok := body.(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("multipart body must be map[string]any, got %T", body)
		}
		return encodeMultipart(fields)
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(buf), "application/json", nil
}

// errorMessage pulls a human-readable message out of an error body. The
// backend answers {"message": "..."}; some routes use {"error": "..."}.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if s, ok := payload.Error.(string); ok {
			return s
		}
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
