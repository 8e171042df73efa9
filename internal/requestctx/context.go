// Package requestctx carries per-request values shared by middleware and
// handlers: the scoped logger, trace ids and the htmx request headers.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type (
	loggerKey struct{}
	traceKey  struct{}
	htmxKey   struct{}
)

var nop = zap.NewNop()

// TraceInfo identifies the server span of the request.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// HTMX holds the htmx request headers. Request is false for plain navigation.
type HTMX struct {
	Request bool
	Target  string
	Trigger string
}

// WithLogger stores logger on ctx. A nil logger stores a no-op one.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = nop
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the request logger, or a no-op logger outside a request.
func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return nop
}

// WithTrace stores the span ids on ctx.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	return context.WithValue(ctx, traceKey{}, info)
}

// TraceID is the request's trace id; empty when untraced.
func TraceID(ctx context.Context) string {
	info, _ := ctx.Value(traceKey{}).(TraceInfo)
	return info.TraceID
}

// WithHTMX stores the parsed htmx headers on ctx.
func WithHTMX(ctx context.Context, hx HTMX) context.Context {
	return context.WithValue(ctx, htmxKey{}, hx)
}

// HTMXRequest returns the htmx headers seen on the request.
func HTMXRequest(ctx context.Context) HTMX {
	hx, _ := ctx.Value(htmxKey{}).(HTMX)
	return hx
}
