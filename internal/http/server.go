// Package http exposes the report service as a small JSON API for the
// hosting application. Rendering is the client's concern; every response is
// a plain snapshot of engine state.
package http

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"tesouraria/internal/log"
	"tesouraria/internal/reports"
)

type Server struct {
	http.Server
	service     *reports.Service
	rateLimiter *rateLimiter
	logger      *log.Logger
}

// NewServer builds a server with routes and middleware installed.
func NewServer(addr string, service *reports.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Server{
		service:     service,
		rateLimiter: newRateLimiter(60, time.Minute),
		logger:      logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/churches", s.handleListChurches)
	mux.HandleFunc("POST /api/reports", s.handleSaveReport)
	mux.HandleFunc("GET /api/reports/{id}/ranking", s.handleRanking)
	mux.HandleFunc("GET /api/spreadsheets/{id}", s.handleGetSpreadsheet)
	mux.HandleFunc("POST /api/spreadsheets", s.handleSaveSpreadsheet)

	s.Addr = addr
	s.Handler = s.withMiddleware(mux)
	return s
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ip := clientIP(r)
		if !s.rateLimiter.Allow(ip) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "Request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, ip)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Per-client fixed-window rate limiter.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*clientWindow
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

func (rl *rateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[clientID]
	if !ok || now.Sub(cw.windowStart) >= rl.window {
		rl.clients[clientID] = &clientWindow{count: 1, windowStart: now}
		// Opportunistic cleanup of expired windows.
		for id, other := range rl.clients {
			if now.Sub(other.windowStart) >= rl.window {
				delete(rl.clients, id)
			}
		}
		return true
	}
	if cw.count >= rl.limit {
		return false
	}
	cw.count++
	return true
}
