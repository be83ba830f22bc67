// Package server provides the HTTP API and dashboard for the job tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/suggestions"
	"github.com/jonathan/job-tracker/internal/types"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight requests get to finish.
const ShutdownTimeout = 30 * time.Second

// JobStore is the persistence the API needs. Both db.DB and db.MemoryStore
// satisfy it.
type JobStore interface {
	ListJobApplications(ctx context.Context, filter types.ListFilter) ([]types.JobApplication, error)
	CreateJobApplication(ctx context.Context, job *types.JobApplication) (uuid.UUID, error)
	GetJobApplication(ctx context.Context, id uuid.UUID) (*types.JobApplication, error)
	UpdateJobApplication(ctx context.Context, id uuid.UUID, patch types.JobApplicationPatch) error
	DeleteJobApplication(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       JobStore
	suggestions *suggestions.Service
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	logger      log.FieldLogger
	defaultUser string
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Addr        string
	DefaultUser string
	// JWT enables bearer authentication on /api/* and the dashboard. Nil
	// leaves the server in open demo mode.
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config, store JobStore, svc *suggestions.Service, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = types.DefaultUserID
	}

	s := &Server{
		store:       store,
		suggestions: svc,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      logger,
		defaultUser: cfg.DefaultUser,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /{$}", s.withAuth(http.HandlerFunc(s.handleDashboard)))

	// Job application endpoints
	s.handleAPI(mux, "GET /api/jobs", s.handleListJobs)
	s.handleAPI(mux, "POST /api/jobs", s.handleCreateJob)
	s.handleAPI(mux, "GET /api/jobs/{id}", s.handleGetJob)
	s.handleAPI(mux, "PUT /api/jobs/{id}", s.handleUpdateJob)
	s.handleAPI(mux, "DELETE /api/jobs/{id}", s.handleDeleteJob)
	s.handleAPI(mux, "GET /api/stats", s.handleStats)

	// AI endpoints
	s.handleAPI(mux, "POST /api/ai/cv-suggestions", s.handleCVSuggestions)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // AI calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases background resources started by New. Run calls it on
// return; callers that never Run must call it themselves.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// handleAPI registers an /api route behind the optional auth middleware.
func (s *Server) handleAPI(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.withAuth(h))
}

// withAuth requires a valid bearer token when JWT is configured.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtService == nil {
		return next
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(next)
}

// userID resolves the owner for a request. An authenticated subject always
// wins; otherwise the caller-supplied value, then the configured default.
func (s *Server) userID(r *http.Request, supplied string) string {
	if id, err := middleware.GetUserID(r); err == nil {
		return id
	}
	if supplied != "" {
		return supplied
	}
	return s.defaultUser
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry := s.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request completed")
			return
		}
		entry.Info("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.WithError(err).Error("health check: store unreachable")
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure maps err to a status and writes it. Server-side errors are logged
// and reported to the client as fallback.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error(fallback)
	}
	s.errorResponse(w, status, clientMessage(err, fallback))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarding headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.WithFields(log.Fields{
		"client": s.extractClientID(r),
		"method": r.Method,
		"path":   r.URL.Path,
		"limit":  info.Limit,
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
