package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// NetworkError reports a catalog request that could not complete: transport
// failures and error statuses from the endpoint.
type NetworkError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("catalog: status %d from %s: %s", e.StatusCode, e.URL, e.Body)
		}
		return fmt.Sprintf("catalog: status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("catalog: request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Temporary reports whether repeating the request may succeed.
func (e *NetworkError) Temporary() bool {
	if e.StatusCode != 0 {
		return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
}

// DecodeError reports a response body that is not a valid product sequence.
// Index is -1 when the body as a whole is malformed.
type DecodeError struct {
	Index int
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("catalog: decode response: %v", e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("catalog: decode product %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("catalog: decode product %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errMissing  = errors.New("missing")
	errNegative = errors.New("must not be negative")
	errNotArray = errors.New("expected a JSON array of products")
)

// IsNetwork reports whether err carries a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsDecode reports whether err carries a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
