package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

func sessionEcho(opts SessionOptions) http.Handler {
	return Session(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetSession(r).ID))
	}))
}

func TestSessionIssuesAndReadsCookie(t *testing.T) {
	h := sessionEcho(SessionOptions{SigningKey: "0123456789abcdef0123"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Body.String()
	require.NotEmpty(t, id)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "valid cookie is not rewritten")
}

func TestSessionRejectsForgedCookie(t *testing.T) {
	issuer := sessionEcho(SessionOptions{SigningKey: "issuer-key-0123456789"})
	rec := httptest.NewRecorder()
	issuer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	forged := rec.Result().Cookies()[0]
	id := rec.Body.String()

	verifier := sessionEcho(SessionOptions{SigningKey: "another-key-0123456789"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(forged)
	rec = httptest.NewRecorder()
	verifier.ServeHTTP(rec, req)
	assert.NotEqual(t, id, rec.Body.String())
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestSessionWritesCookieWithoutBody(t *testing.T) {
	h := Session(SessionOptions{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestHTMXMarksRequest(t *testing.T) {
	var seen bool
	var target string
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IsHTMX(r.Context())
		target = requestctx.HTMXRequest(r.Context()).Target
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "product-list")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, seen)
	assert.Equal(t, "product-list", target)
	assert.Equal(t, "HX-Request", rec.Header().Get("Vary"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, seen)
}

func TestAssetsWithCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("console.log(1)"), 0o600))
	h := AssetsWithCache("/assets", dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/js/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	req := httptest.NewRequest(http.MethodGet, "/assets/js/app.js", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/js/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
