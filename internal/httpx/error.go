// Package httpx writes JSON error responses for requests that are not served
// as HTML fragments.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

// Error is an API failure with the HTTP status it maps to.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
}

// envelope is the wire shape of an Error.
type envelope struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Status    int            `json:"status"`
	RequestID string         `json:"request_id,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewError constructs an Error. A zero status means 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{Code: code, Message: message, Status: status}
}

func BadRequest(code, message string) Error {
	return NewError(code, message, http.StatusBadRequest)
}

func NotFound(code, message string) Error {
	return NewError(code, message, http.StatusNotFound)
}

func Gone(code, message string) Error {
	return NewError(code, message, http.StatusGone)
}

// With returns a copy of e carrying key in its details.
func (e Error) With(key string, value any) Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// WriteError encodes err, stamping the request and trace ids found on ctx.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	body := envelope{
		Error:     clip(err.Code, 80),
		Message:   clip(err.Message, 512),
		Status:    err.Status,
		RequestID: clip(middleware.GetReqID(ctx), 80),
		TraceID:   clip(requestctx.TraceID(ctx), 64),
		Details:   err.Details,
	}
	if body.Status == 0 {
		body.Status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}

// clip flattens value onto one line and bounds its length.
func clip(value string, limit int) string {
	value = strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(value))
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
