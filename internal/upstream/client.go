// Package upstream is the JSON client for the remote admin API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds every remote call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Options describes a single request.
type Options struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Form is a pre-encoded body (multipart or binary) sent untouched with its own content type.
type Form struct {
	ContentType string
	Body        io.Reader
}

// Client issues requests against a fixed remote origin.
type Client struct {
	baseURL    string
	pathPrefix string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new upstream client
func NewClient(baseURL, pathPrefix string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pathPrefix: "/" + strings.Trim(pathPrefix, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	if c.pathPrefix == "/" {
		c.pathPrefix = ""
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call POSTs body as JSON to endpoint and decodes the validated response into out.
// out may be nil when only success matters.
func (c *Client) Call(ctx context.Context, endpoint string, body, out any) error {
	raw, err := c.Request(ctx, endpoint, Options{Method: http.MethodPost, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, endpoint, err)
	}
	return nil
}

// Request sends one request and returns the raw JSON body once it has been validated.
// A response fails when the transport fails, the body is empty or not JSON, the status
// is not 2xx, or the body carries success=false.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.do(ctx, endpoint, opts)
	elapsed := time.Since(start)
	c.metrics.observe(endpoint, err, elapsed)

	if err != nil {
		log.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("kind", Kind(err)).
			Dur("elapsed", elapsed).
			Msg("Upstream request failed")
		return nil, err
	}

	log.Debug().
		Str("endpoint", endpoint).
		Dur("elapsed", elapsed).
		Msg("Upstream request completed")
	return raw, nil
}

func (c *Client) do(parent context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	method := opts.Method
	if method == "" {
		method = http.MethodPost
	}

	header := make(http.Header)
	for k, v := range opts.Headers {
		header.Set(k, v)
	}

	var body io.Reader
	switch b := opts.Body.(type) {
	case nil:
	case Form:
		body = b.Body
		if b.ContentType != "" {
			header.Set("Content-Type", b.ContentType)
		}
	case *Form:
		body = b.Body
		if b.ContentType != "" {
			header.Set("Content-Type", b.ContentType)
		}
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		header.Set("Content-Type", "application/json")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header = header
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(parent, ctx, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(parent, ctx, err)
	}

	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		return nil, ErrEmptyResponse
	}
	if !json.Valid(text) {
		log.Debug().Str("endpoint", endpoint).Bytes("body", truncate(text, 512)).Msg("Non-JSON response")
		return nil, ErrInvalidResponse
	}

	failed, message := inspect(text)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || failed {
		if message == "" {
			message = fallbackMessage
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	return json.RawMessage(text), nil
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + c.pathPrefix + "/" + strings.TrimLeft(endpoint, "/")
}

// inspect looks for the success marker and message of an object body. Only a literal
// false marks a failure. Non-object bodies carry neither.
func inspect(text []byte) (failed bool, message string) {
	var env struct {
		Success json.RawMessage `json:"success"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(text, &env); err != nil {
		return false, ""
	}
	failed = bytes.Equal(bytes.TrimSpace(env.Success), []byte("false"))
	var s string
	if err := json.Unmarshal(env.Message, &s); err == nil {
		message = s
	}
	return failed, message
}

// classify maps transport errors to ErrTimeout, the caller's cancellation, or ErrTransport.
func classify(parent, ctx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
