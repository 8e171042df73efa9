package observability

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

var tracer = otel.Tracer("github.com/ikiranmezar/product-listing-app/internal/observability")

// TraceMiddleware starts a server span per request and records its ids on the
// request context.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		sc := span.SpanContext()
		info := requestctx.TraceInfo{Sampled: sc.IsSampled()}
		if sc.HasTraceID() {
			info.TraceID = sc.TraceID().String()
		}
		if sc.HasSpanID() {
			info.SpanID = sc.SpanID().String()
		}
		ctx = requestctx.WithTrace(ctx, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
