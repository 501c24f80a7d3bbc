// Package client is the typed HTTP client of the insurance platform's admin
// REST API. Every call carries the session's bearer token; nothing is retried.
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

	"github.com/rs/zerolog"
)

// FallbackMessage is shown when the backend gives no error text
const FallbackMessage = "Request failed"

// DefaultTimeout bounds every backend call
const DefaultTimeout = 30 * time.Second

// ErrUnauthorized marks a missing or rejected bearer token
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a failed backend call. Message is safe to show to the operator.
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrUnauthorized for 401 and 403 responses
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return e.cause
}

// IsUnauthorized reports whether err means the session must log in again
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Client calls the backend. It is safe for concurrent use; WithToken returns
// a copy bound to one session's token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	maxReport  int64
	log        zerolog.Logger
}

// Options configures a Client
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// MaxReportSize caps downloaded reports; MaxReportSize when zero
	MaxReportSize int64
}

// New creates a client for baseURL, e.g. http://localhost:5000/api
func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	maxReport := opts.MaxReportSize
	if maxReport <= 0 {
		maxReport = MaxReportSize
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		maxReport:  maxReport,
		log:        opts.Logger.With().Str("component", "client").Logger(),
	}
}

// WithToken returns a copy of c that sends token as its bearer credential
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// envelope is the {data: ...} wrapper of single-entity responses
type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs req and returns the response when it is 2xx. The caller
// closes the body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("Backend request failed")
		return nil, &APIError{Message: FallbackMessage, cause: err}
	}

	event := c.log.Debug()
	if resp.StatusCode >= 400 {
		event = c.log.Warn()
	}
	event.Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: FallbackMessage, cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	msg := FallbackMessage
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(b, &eb) == nil {
		switch {
		case eb.Error != "":
			msg = eb.Error
		case eb.Message != "":
			msg = eb.Message
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func getData[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	var env envelope[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
