package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetApp forces the next Handler call to bootstrap from the current env.
func resetApp(t *testing.T) {
	t.Helper()
	reset := func() {
		app, initErr, once = nil, nil, sync.Once{}
	}
	reset()
	t.Cleanup(reset)
}

func TestHandlerPreflight(t *testing.T) {
	resetApp(t)
	t.Setenv("CORS_MODE", "fixed")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	Handler(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Empty(t, w.Body.String())
}

func TestHandlerInvalidConfigKeepsConfiguredOrigin(t *testing.T) {
	resetApp(t)
	t.Setenv("CORS_MODE", "fixed")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://example.com")
	t.Setenv("MAX_BODY_BYTES", "one megabyte")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	Handler(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Contact service temporarily unavailable"}`, w.Body.String())
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
