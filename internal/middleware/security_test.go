package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	SecurityHeaders(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestHostCheck(t *testing.T) {
	handler := HostCheck("api.lumen.app")(okHandler)

	cases := []struct {
		host string
		want int
	}{
		{"api.lumen.app", http.StatusOK},
		{"api.lumen.app:443", http.StatusOK},
		{"API.Lumen.App", http.StatusOK},
		{"evil.example.com", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
		req.Host = tc.host
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "host %q", tc.host)
	}
}

func TestHostCheckDisabledWhenEmpty(t *testing.T) {
	handler := HostCheck("")(okHandler)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything.example.com"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGlobalRateLimitPerIP(t *testing.T) {
	handler := GlobalRateLimit(okHandler)

	send := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 10 passes, the 11th immediate request is limited.
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, send("10.1.0.1:5000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("10.1.0.1:5000"))

	// A different IP has its own budget.
	assert.Equal(t, http.StatusOK, send("10.1.0.2:5000"))
}

func TestSigninRateLimitOnlyOnSigninPath(t *testing.T) {
	handler := SigninRateLimit(okHandler)

	send := func(path, addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("/api/auth/signin", "10.2.0.1:5000"))
	assert.Equal(t, http.StatusOK, send("/api/auth/signin", "10.2.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/auth/signin", "10.2.0.1:5000"))

	// Other routes are untouched even for the limited IP.
	assert.Equal(t, http.StatusOK, send("/api/entries", "10.2.0.1:5000"))
}
