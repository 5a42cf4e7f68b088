package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each component check in GET /health.
const healthCheckTimeout = 3 * time.Second

const welcomeMessage = "Welcome to my Movie API!"

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	// Public endpoints
	r.Get("/", s.handleWelcome)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Post("/login", s.handle(s.handleLogin))
	r.Post("/users", s.handle(s.handleRegister))

	// Catalog endpoints, protected unless catalog.public is set
	r.Group(func(r chi.Router) {
		if !s.catalogCfg.Public {
			r.Use(s.authMiddleware)
		}

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", s.handle(s.handleListMovies))
			r.Get("/genre/{genreName}", s.handle(s.handleMoviesByGenre))
			r.Get("/director/{directorName}", s.handle(s.handleMoviesByDirector))
			r.Get("/{title}", s.handle(s.handleGetMovie))
		})
		r.Get("/genres/{genreName}", s.handle(s.handleGetGenre))
		r.Get("/directors/{directorName}", s.handle(s.handleGetDirector))
	})

	// Account endpoints
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/users", s.handle(s.handleListUsers))

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", s.handle(s.handleGetUser))
			r.Put("/", s.handle(s.handleUpdateUser))
			r.Delete("/", s.handle(s.handleDeleteUser))
			r.Post("/movies/{movieID}", s.handle(s.handleAddFavorite))
			r.Delete("/movies/{movieID}", s.handle(s.handleRemoveFavorite))
		})
	})

	return r
}

// handleWelcome returns a plain-text greeting.
func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomeMessage)) //nolint:errcheck // Best-effort write to response
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// handleHealth returns the server health status. Any failing component
// check turns the response into 503 "degraded".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: s.version}
	status := http.StatusOK

	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
		for name, checker := range s.checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := checker.HealthCheck(ctx)
			cancel()

			if err != nil {
				s.logger.Warn("health check failed", "component", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}
