package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"netops-cockpit/internal/model"
)

type clientLimiter struct {
	general  *rate.Limiter
	heavy    *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware applies per-client token buckets: a general one, and
// a stricter one for the expensive routes (sync kickoff, CSV export) that
// hit the upstream or rewrite the snapshot.
type RateLimitMiddleware struct {
	generalRPM int
	heavyRPM   int
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

var heavyPathPrefixes = []string{
	"/api/v1/sync",
	"/api/v1/editsets",
}

func NewRateLimitMiddleware(generalRPM int, heavyRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if heavyRPM <= 0 {
		heavyRPM = 20
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		heavyRPM:   heavyRPM,
		clients:    map[string]*clientLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		limiter := m.getLimiter(clientIP)

		target := limiter.general
		if r.Method != http.MethodGet && isHeavyPath(r.URL.Path) {
			target = limiter.heavy
		}

		if !target.Allow() {
			w.Header().Set("Retry-After", "60")
			writeEnvelope(w, http.StatusTooManyRequests, model.APIResponse{
				Success: false,
				Error: &model.APIError{
					Code:    "RATE_LIMITED",
					Message: "Too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isHeavyPath(path string) bool {
	lowered := strings.ToLower(path)
	for _, prefix := range heavyPathPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = time.Now()
		m.gcLocked()
		return limiter
	}

	general := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM)
	heavy := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.heavyRPM)), m.heavyRPM)
	created := &clientLimiter{general: general, heavy: heavy, lastSeen: time.Now()}
	m.clients[clientIP] = created
	m.gcLocked()

	return created
}

func (m *RateLimitMiddleware) gcLocked() {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

func extractClientIP(r *http.Request) string {
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	realIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if strings.TrimSpace(r.RemoteAddr) == "" {
		return "unknown"
	}

	return r.RemoteAddr
}
