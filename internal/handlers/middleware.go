package handlers

import (
	"encoding/gob"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// Flashes travel inside the cookie session, which gob-encodes its values.
func init() {
	gob.Register(FlashMessage{})
}

// LoggingMiddleware logs one line per request. Asset and image traffic logs
// at debug so page views stay readable; server errors log at error.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case strings.HasPrefix(r.URL.Path, "/static/"), r.URL.Path == "/img", r.URL.Path == "/healthz":
			level = slog.LevelDebug
		}
		slog.Log(r.Context(), level, "HTTP Request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", clientIP(r),
		)
	})
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		// Product images come through /img, so img-src stays same-origin.
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; script-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// PlaintextMiddleware tells gorilla/csrf the site is served over plain HTTP, so
// it skips the HTTPS-only Referer check. Only used when cookies are not Secure.
func PlaintextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// pruneEvery bounds how often the limiter walks its visitor map.
const pruneEvery = time.Minute

// RateLimiter allows one request per window and client IP. Stale visitors are
// pruned inline while serving, so the limiter owns no goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]time.Time
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// NewRateLimiter returns a limiter for the given window. A zero window disables
// limiting.
func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: map[string]time.Time{},
		window:   window,
		now:      time.Now,
	}
}

// allow records a request from ip and reports whether it is outside the window
// of the last accepted one.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) >= pruneEvery {
		rl.prune(now)
	}
	if last, ok := rl.visitors[ip]; ok && now.Sub(last) < rl.window {
		return false
	}
	rl.visitors[ip] = now
	return true
}

// prune drops visitors whose window has passed. Caller holds mu.
func (rl *RateLimiter) prune(now time.Time) {
	for ip, last := range rl.visitors {
		if now.Sub(last) >= rl.window {
			delete(rl.visitors, ip)
		}
	}
	rl.lastPrune = now
}

// Middleware throttles login and registration attempts.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rl.window <= 0 {
			next(w, r)
			return
		}
		ip := clientIP(r)
		if !rl.allow(ip) {
			slog.Warn("Too many sign-in attempts", "ip", ip, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
			http.Error(w, "Too Many Requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Type    string
	Message string
}

// GetFlash drains the flashes queued on the session.
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
