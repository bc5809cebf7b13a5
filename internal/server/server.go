// Package server provides the HTTP REST API over the LinkedIn snapshot pipelines.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/server/middleware"
	"github.com/jonathan/linkedin-snapshot/internal/server/ratelimit"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Retriever runs the retrieval pipelines. *linkedin.Service satisfies it.
type Retriever interface {
	GetProfile(ctx context.Context, profileURL string) (types.Record, error)
	GetJobListing(ctx context.Context, jobURL string) (types.Record, error)
	SearchJobs(ctx context.Context, keyword string) ([]types.Record, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	service     Retriever
	fresh       Retriever
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService

	onShutdown   func()
	shutdownOnce sync.Once
}

// Config holds server configuration
type Config struct {
	Port int
	// Service answers requests. FreshService, when set, answers requests that ask
	// to skip cached results.
	Service      Retriever
	FreshService Retriever
	// JWT enables bearer authentication on every route except /health.
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	// OnShutdown runs once when Start returns, whether the server stopped
	// cleanly or failed to listen.
	OnShutdown func()
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("server requires a retrieval service")
	}

	s := &Server{
		service:     cfg.Service,
		fresh:       cfg.FreshService,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		onShutdown:  cfg.OnShutdown,
	}
	if s.fresh == nil {
		s.fresh = cfg.Service
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // snapshots can take minutes to become ready
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	retrieval := http.NewServeMux()
	retrieval.HandleFunc("POST /profiles", s.handleProfile)
	retrieval.HandleFunc("POST /jobs", s.handleJobListing)
	retrieval.HandleFunc("POST /jobs/search", s.handleJobSearch)

	var protected http.Handler = retrieval
	if s.jwtService != nil {
		protected = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(retrieval)
	}
	mux.Handle("/", protected)

	return s.withRateLimit(s.withLogging(mux))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
// The rate limiter and OnShutdown are released on every return path.
func (s *Server) Start() error {
	defer s.release()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// release stops background work and runs the OnShutdown hook once.
func (s *Server) release() {
	s.rateLimiter.Stop()
	s.shutdownOnce.Do(func() {
		if s.onShutdown != nil {
			s.onShutdown()
		}
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the caller for rate limiting by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
