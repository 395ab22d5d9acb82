// Package server exposes the advisor over HTTP: session management, the two
// profile/recommendation operations, and an optional chat endpoint.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/card-advisor/internal/advisor"
	"github.com/jonathan/card-advisor/internal/server/ratelimit"
)

// Server is the HTTP front of the advisor.
type Server struct {
	httpServer  *http.Server
	tools       *advisor.Toolset
	advisor     *advisor.Advisor
	rateLimiter *ratelimit.Limiter

	// Conversation history is presentation state, not profile state; it
	// lives here rather than in the session store.
	historyMu sync.Mutex
	histories map[string][]advisor.Turn
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a server over a toolset. adv may be nil, which disables the
// chat endpoint (the two core operations remain available).
func New(cfg Config, tools *advisor.Toolset, adv *advisor.Advisor) *Server {
	s := &Server{
		tools:       tools,
		advisor:     adv,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		histories:   make(map[string][]advisor.Turn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /sessions/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("POST /sessions/{id}/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /sessions/{id}/recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /sessions/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.rateLimiter.Stop()
		return nil
	})

	err := g.Wait()
	log.Println("Server stopped")
	return err
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(r.RemoteAddr) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
