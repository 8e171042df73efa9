package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ikiranmezar/product-listing-app/internal/retry"
)

// Defaults for catalog requests.
const (
	DefaultTimeout       = 8 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 150 * time.Millisecond
)

var tracer = otel.Tracer("github.com/ikiranmezar/product-listing-app/internal/catalog")

// Client fetches the product list from the catalog endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	retry    retry.Config
	logger   *zap.Logger
	flights  singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetry sets the attempt budget and base backoff for transient failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry.MaxAttempts = attempts
		c.retry.Backoff = retry.ExponentialBackoff(delay)
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a catalog client. When endpoint is empty the client
// serves the embedded fixture catalog.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: DefaultTimeout},
		retry: retry.Config{
			MaxAttempts: DefaultRetryAttempts,
			Backoff:     retry.ExponentialBackoff(DefaultRetryDelay),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.ShouldRetry = shouldRetry
	return c
}

// Endpoint returns the configured endpoint; empty means fixture mode.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch retrieves the catalog narrowed by f. Concurrent fetches for the same
// query share one upstream request.
func (c *Client) Fetch(ctx context.Context, f Filter) ([]Product, error) {
	if c == nil || c.endpoint == "" {
		return Fixtures()
	}

	target := c.endpoint
	if q := f.Query(); q != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + q
	}

	// The shared flight must outlive any single caller; the HTTP client
	// timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(target, func() (any, error) {
		return c.fetch(flightCtx, target)
	})

	select {
	case <-ctx.Done():
		return nil, &NetworkError{URL: target, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]Product)
		out := make([]Product, len(shared))
		copy(out, shared)
		return out, nil
	}
}

func (c *Client) fetch(ctx context.Context, target string) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("url.full", target))

	cfg := c.retry
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.logger.Warn("catalog fetch retry",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	var attempts int
	products, err := retry.DoWithResult(ctx, cfg, func(attempt int) ([]Product, error) {
		attempts = attempt
		return c.do(ctx, target)
	})
	span.SetAttributes(attribute.Int("catalog.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog fetch failed")
		if !IsNetwork(err) && !IsDecode(err) {
			// context expiry while waiting between attempts
			err = &NetworkError{URL: target, Err: err}
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	span.SetStatus(codes.Ok, "")
	return products, nil
}

func (c *Client) do(ctx context.Context, target string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &NetworkError{URL: target, StatusCode: resp.StatusCode, Body: drainError(resp.Body)}
	}
	return Decode(resp.Body)
}

func shouldRetry(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Temporary()
	}
	return false
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
