package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringA = `[{"name":"Ring A","priceUSD":100,"popularityScore":0.8,"images":{"yellow":"a.jpg","white":"b.jpg","rose":"c.jpg"}}]`

func newUpstream(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchSendsOrderedQuery(t *testing.T) {
	var gotQuery, gotAccept string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, ringA)
	})

	c := NewClient(srv.URL + "/products")
	products, err := c.Fetch(context.Background(), Filter{MinPrice: "10", MinPopularity: "4"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Ring A", products[0].Name)
	assert.Equal(t, "min_price=10&min_popularity=4", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientFetchWithoutFilterSendsNoQuery(t *testing.T) {
	var gotURI string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		_, _ = io.WriteString(w, `[]`)
	})

	products, err := NewClient(srv.URL + "/products").Fetch(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, "/products", gotURI)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, ringA)
	})

	c := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	products, err := c.Fetch(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := NewClient(srv.URL, WithRetry(3, time.Millisecond)).Fetch(context.Background(), Filter{})
	require.Error(t, err)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusNotFound, ne.StatusCode)
	assert.Equal(t, "nope", ne.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientDecodeErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"error":"maintenance"}`)
	})

	_, err := NewClient(srv.URL, WithRetry(3, time.Millisecond)).Fetch(context.Background(), Filter{})
	require.Error(t, err)
	assert.True(t, IsDecode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(endpoint, WithRetry(2, time.Millisecond)).Fetch(context.Background(), Filter{})
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Temporary())
}

func TestClientCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = io.WriteString(w, `[]`)
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL).Fetch(ctx, Filter{})
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientWithoutEndpointServesFixtures(t *testing.T) {
	c := NewClient("")
	assert.Empty(t, c.Endpoint())
	products, err := c.Fetch(context.Background(), Filter{MinPrice: "999999"})
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}
