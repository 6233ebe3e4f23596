package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRecovery(t *testing.T) {
	m := New(logger.Nop(), 0, false)
	h := m.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	m := New(logger.Nop(), 0, false)

	rec := httptest.NewRecorder()
	m.Security(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestLoggingKeepsStatus(t *testing.T) {
	m := New(logger.Nop(), 0, false)
	h := m.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	m := New(logger.Nop(), 0, false)
	h := m.Chain(okHandler())

	for range 100 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	m := New(logger.Nop(), 2, false)
	h := m.Chain(okHandler())

	request := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("192.0.2.1:4000"))
	assert.Equal(t, http.StatusOK, request("192.0.2.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, request("192.0.2.1:4002"))
	assert.Equal(t, http.StatusOK, request("192.0.2.2:4000"))
}

func TestRateLimitIgnoresForwardedHeadersFromPeer(t *testing.T) {
	m := New(logger.Nop(), 2, false)
	h := m.Chain(okHandler())

	accepted := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		req.Header.Set("X-Real-IP", fmt.Sprintf("172.16.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}

	assert.Equal(t, 2, accepted)
	assert.Len(t, m.limiter.clients, 1)
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	m := New(logger.Nop(), 1, true)
	h := m.Chain(okHandler())

	request := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:8443"
		req.Header.Set("X-Forwarded-For", forwardedFor+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("192.0.2.1"))
	assert.Equal(t, http.StatusOK, request("192.0.2.2"))
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := range 1000 {
		rl.Allow(fmt.Sprintf("client-%d", i))
	}
	assert.Len(t, rl.clients, 1000)

	now = now.Add(30 * time.Second)
	rl.Allow("client-0")
	assert.Len(t, rl.clients, 1000)

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("fresh"))
	assert.Len(t, rl.clients, 1)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5123"
	req.Header.Set("X-Forwarded-For", "192.0.2.7")
	req.Header.Set("X-Real-IP", "198.51.100.4")

	assert.Equal(t, "203.0.113.9", getClientIP(req, false))
	assert.Equal(t, "192.0.2.7", getClientIP(req, true))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "198.51.100.4", getClientIP(req, true))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(req, false))

	req.RemoteAddr = "@"
	assert.Equal(t, "@", getClientIP(req, false))
}
