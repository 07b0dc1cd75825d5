package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lumen-app/lumen-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost.
// allowedHost should be the bare hostname without scheme or port; empty
// disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// limiterPool is a per-IP limiter registry with idle cleanup, shared by the
// global and sign-in limiters.
type limiterPool struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	newLimiter func() *rate.Limiter
	cleanupRun bool
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

func newLimiterPool(newLimiter func() *rate.Limiter) *limiterPool {
	return &limiterPool{
		entries:    make(map[string]*limiterEntry),
		newLimiter: newLimiter,
	}
}

func (p *limiterPool) get(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startCleanupOnce()
	e, ok := p.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: p.newLimiter(), lastUse: time.Now()}
		p.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (p *limiterPool) startCleanupOnce() {
	if p.cleanupRun {
		return
	}
	p.cleanupRun = true
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			p.mu.Lock()
			now := time.Now()
			for ip, e := range p.entries {
				if now.Sub(e.lastUse) > limiterTTL {
					delete(p.entries, ip)
				}
			}
			p.mu.Unlock()
		}
	}()
}

// Global: 1 req/s per IP, burst 10. Sign-in: 1 req/5s per IP, burst 2.
var (
	globalLimiters = newLimiterPool(func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(1), 10)
	})
	signinLimiters = newLimiterPool(func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(5*time.Second), 2)
	})
)

var signinPaths = map[string]bool{
	"/api/auth/signin": true,
}

// GlobalRateLimit limits each IP to 1 req/s, burst 10. Returns 429 when exceeded.
func GlobalRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !globalLimiters.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests. Please slow down."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SigninRateLimit applies a stricter limit to the sign-in route only.
// Use after GlobalRateLimit.
func SigninRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !signinPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientip.RealClientIP(r)
		if !signinLimiters.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many login attempts. Please try again later."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns middlewares for production:
// SecurityHeaders → HostCheck → GlobalRateLimit → SigninRateLimit.
func ProductionSecurity(allowedHost string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		GlobalRateLimit,
		SigninRateLimit,
	}
}
