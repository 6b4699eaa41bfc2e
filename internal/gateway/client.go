// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gateway provides a typed client for a content resource exposed by the
// remote content service. Every operation issues exactly one request and
// normalizes non-2xx answers into RemoteOperationError.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Client configuration constants
const (
	RequestTimeout = 30 * time.Second // HTTP request timeout
	MaxResponseLen = 4 * 1024 * 1024  // Maximum response body read (4MB)
	UserAgent      = "oCMS-Desk/1.0"  // User-Agent header value
)

// httpClient is the shared HTTP client with appropriate timeouts.
var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Result is the decoded answer of a mutating call.
type Result[T any] struct {
	Item    T
	Message string // Server-supplied message, if any
}

// Ack is the answer of a delete call.
type Ack struct {
	Message string
}

type options struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
	envelope   string
	name       string
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRateLimit throttles outgoing requests to rps requests per second.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithEnvelope makes the client read mutated records from the given key of the
// response object, e.g. {"message": "...", "faq": {...}}.
func WithEnvelope(key string) Option {
	return func(o *options) { o.envelope = key }
}

// WithName sets the entity name used in operation names ("approve review").
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Client is a typed client for one content resource.
type Client[T any] struct {
	endpoint  string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	userAgent string
	envelope  string
	name      string
}

// New creates a client for the resource at baseURL joined with resourcePath,
// e.g. New[model.Review]("http://localhost:4000", "/api/review").
func New[T any](baseURL, resourcePath string, opts ...Option) (*Client[T], error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL has no host: %q", baseURL)
	}

	endpoint, err := url.JoinPath(baseURL, resourcePath)
	if err != nil {
		return nil, fmt.Errorf("joining resource path: %w", err)
	}

	o := options{
		httpClient: httpClient,
		logger:     slog.Default(),
		userAgent:  UserAgent,
		name:       path.Base(strings.TrimRight(resourcePath, "/")),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client[T]{
		endpoint:  strings.TrimRight(endpoint, "/"),
		http:      o.httpClient,
		limiter:   o.limiter,
		logger:    o.logger,
		userAgent: o.userAgent,
		envelope:  o.envelope,
		name:      o.name,
	}, nil
}

// Endpoint returns the resource URL the client talks to.
func (c *Client[T]) Endpoint() string {
	return c.endpoint
}

// List fetches the full collection.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	op := "list " + c.name
	body, err := c.do(ctx, op, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](op, body)
}

// Approved fetches only the approved entities.
func (c *Client[T]) Approved(ctx context.Context) ([]T, error) {
	op := "list approved " + c.name
	body, err := c.do(ctx, op, http.MethodGet, "/approved", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](op, body)
}

// Approve flips the approval flag of an entity.
func (c *Client[T]) Approve(ctx context.Context, id string) (Result[T], error) {
	op := "approve " + c.name
	body, err := c.do(ctx, op, http.MethodPatch, "/"+url.PathEscape(id)+"/approve", nil)
	if err != nil {
		return Result[T]{}, err
	}
	return c.decodeResult(op, body)
}

// Delete removes an entity.
func (c *Client[T]) Delete(ctx context.Context, id string) (Ack, error) {
	op := "delete " + c.name
	body, err := c.do(ctx, op, http.MethodDelete, "/"+url.PathEscape(id), nil)
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: bodyMessage(body)}, nil
}

// Update replaces the submitted fields of an entity.
func (c *Client[T]) Update(ctx context.Context, id string, p *Payload) (Result[T], error) {
	op := "update " + c.name
	body, err := c.do(ctx, op, http.MethodPut, "/"+url.PathEscape(id), p)
	if err != nil {
		return Result[T]{}, err
	}
	return c.decodeResult(op, body)
}

// Create submits a new entity. The server assigns id and creation time.
func (c *Client[T]) Create(ctx context.Context, p *Payload) (Result[T], error) {
	op := "create " + c.name
	body, err := c.do(ctx, op, http.MethodPost, "/", p)
	if err != nil {
		return Result[T]{}, err
	}
	return c.decodeResult(op, body)
}

// do performs one request and returns the response body on a 2xx status.
func (c *Client[T]) do(ctx context.Context, op, method, suffix string, p *Payload) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
	}

	target := c.endpoint + suffix

	var body io.Reader
	var contentType string
	if p != nil {
		var err error
		body, contentType, err = p.Encode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("content service unreachable",
			"op", op,
			"method", method,
			"url", target,
			"error", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("content service call",
		"op", op,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newRemoteError(op, resp.StatusCode, data)
	}
	return data, nil
}

// decodeResult decodes a mutated record, honouring the configured envelope.
func (c *Client[T]) decodeResult(op string, body []byte) (Result[T], error) {
	var res Result[T]
	res.Message = bodyMessage(body)

	raw := body
	if c.envelope != "" {
		if v := gjson.GetBytes(body, c.envelope); v.Exists() {
			raw = []byte(v.Raw)
		}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res.Item); err != nil {
		return res, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return res, nil
}

// decodeList decodes a collection. Bodies that are not JSON arrays yield an
// empty collection.
func decodeList[T any](op string, body []byte) ([]T, error) {
	if !gjson.ParseBytes(body).IsArray() {
		return []T{}, nil
	}
	items := make([]T, 0)
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return items, nil
}

// bodyMessage returns the "message" string of a JSON object body, or "".
func bodyMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	v := gjson.GetBytes(body, "message")
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.String())
}
