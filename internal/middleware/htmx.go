package middleware

import (
	"context"
	"net/http"

	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

// HTMX records the htmx request headers on the context so handlers can answer
// with fragments. Responses vary on HX-Request since one URL serves both shapes.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "HX-Request")
		hx := requestctx.HTMX{
			Request: r.Header.Get("HX-Request") == "true",
			Target:  r.Header.Get("HX-Target"),
			Trigger: r.Header.Get("HX-Trigger"),
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithHTMX(r.Context(), hx)))
	})
}

// IsHTMX reports whether the request came from htmx.
func IsHTMX(ctx context.Context) bool {
	return requestctx.HTMXRequest(ctx).Request
}
