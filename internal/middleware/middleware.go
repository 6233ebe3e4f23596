package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
)

// Middleware represents the middleware dependencies
type Middleware struct {
	log        *logger.Logger
	limiter    *RateLimiter
	trustProxy bool
}

// RateLimiter holds a token bucket per client address. Clients idle for
// longer than it takes their bucket to refill are forgotten.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a new middleware instance. requestsPerMinute <= 0 disables
// rate limiting. Forwarding headers are only honored with trustProxy.
func New(log *logger.Logger, requestsPerMinute int, trustProxy bool) *Middleware {
	m := &Middleware{log: log, trustProxy: trustProxy}
	if requestsPerMinute > 0 {
		m.limiter = NewRateLimiter(requestsPerMinute, time.Minute)
	}
	return m
}

// NewRateLimiter allows limit requests per client in each period, with
// bursts of up to limit.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Every(period / time.Duration(limit)),
		burst:   limit,
		idle:    period,
		now:     time.Now,
	}
}

// Chain wraps h with recovery, request logging, security headers and
// rate limiting, outermost last.
func (m *Middleware) Chain(h http.Handler) http.Handler {
	h = m.Recovery(h)
	h = m.Logging(h)
	h = m.Security(h)
	return m.RateLimit(h)
}

// Logging logs HTTP requests
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.log.With("method", r.Method).
			With("path", r.URL.Path).
			With("status", rw.statusCode).
			With("duration", time.Since(start).String()).
			With("remote_addr", r.RemoteAddr).
			Debug("HTTP request completed")
	})
}

// Recovery handles panics and returns a 500 error
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				m.log.Errorf("Panic in HTTP handler: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Security adds basic security headers
func (m *Middleware) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// status changes every pass
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m.limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r, m.trustProxy)

		if !m.limiter.Allow(clientIP) {
			m.log.Warnf("Rate limit exceeded for client: %s", clientIP)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow reports whether key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweep(now)
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// sweep drops clients whose bucket has had time to refill completely
func (rl *RateLimiter) sweep(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.idle {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// getClientIP extracts the client IP address from the request. The
// X-Forwarded-For and X-Real-IP headers are client controlled and only
// consulted behind a trusted proxy.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseWriter captures the status code written by a handler
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
