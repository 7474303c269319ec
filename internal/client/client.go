// Package client is the SDK's HTTP transport: JSON request/response against
// the doremi REST API, with retries, request ids and trace spans. It reports
// transport outcomes only — interpreting the application-level envelope is
// the caller's job (see internal/envelope).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/envelope"
)

// TokenSource supplies the bearer token and accepts invalidation. A nil
// source means unauthenticated requests.
type TokenSource interface {
	Token() (string, bool)
	Clear()
}

// Response is a settled HTTP exchange. Any status is delivered here; only a
// failure to obtain a response at all surfaces as an error.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

// NetworkError marks a request that never produced a response.
type NetworkError struct {
	Wrapped error
}

func (e *NetworkError) Error() string { return envelope.MsgNetworkUnreachable }
func (e *NetworkError) Unwrap() error { return e.Wrapped }

// Client talks to one doremi API host.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
	tracer  trace.Tracer
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the default robust client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTokenSource attaches bearer-token handling.
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option { return func(c *Client) { c.log = log } }

// New builds a client for baseURL (e.g. "http://localhost:3000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zap.NewNop(),
		tracer:  otel.Tracer("doremi/client"),
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = RobustHTTPClient(c.log, 10*time.Second, 3)
	}
	return c
}

// Do performs one JSON exchange. body may be nil. The returned error is
// non-nil only for transport failures (*NetworkError) or encoding problems;
// HTTP error statuses come back as a normal *Response.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path)
	defer span.End()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &NetworkError{Wrapped: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Wrapped: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// An expired or revoked token is dropped so the next action starts from
	// a clean unauthenticated state.
	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.tokens.Clear()
	}

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// Get is a query without a body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post sends a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, query, body)
}

// Delete sends an optional JSON body with the DELETE method.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, body)
}
