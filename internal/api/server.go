package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/movie-api/internal/audit"
	"github.com/nerrad567/movie-api/internal/auth"
	"github.com/nerrad567/movie-api/internal/catalog"
	"github.com/nerrad567/movie-api/internal/infrastructure/config"
	"github.com/nerrad567/movie-api/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by every infrastructure client the server
// reports on: the SQLite and MongoDB stores, MQTT and InfluxDB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectionReporter reports whether an optional client is connected.
type ConnectionReporter interface {
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Catalog config.CatalogConfig
	Logger  *logging.Logger
	Version string

	Users  auth.UserRepository
	Movies catalog.Repository
	Hasher *auth.Hasher
	Tokens *auth.TokenService

	// Recorder receives account events. Nil records nothing.
	Recorder audit.Recorder

	// Checks are run by GET /health, keyed by component name.
	Checks map[string]HealthChecker

	// Optional inputs to GET /metrics.
	MQTT    ConnectionReporter
	DBStats func() sql.DBStats
}

// Server is the HTTP API server for the movie catalog and user accounts.
//
// It manages the HTTP listener, routes and middleware. The server is created
// with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	catalogCfg config.CatalogConfig
	logger     *logging.Logger
	version    string

	users         auth.UserRepository
	movies        catalog.Repository
	hasher        *auth.Hasher
	tokens        *auth.TokenService
	authenticator *auth.Authenticator
	recorder      audit.Recorder

	checks  map[string]HealthChecker
	mqtt    ConnectionReporter
	dbStats func() sql.DBStats

	startTime time.Time
	server    *http.Server
	listener  net.Listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (logger, stores, hasher, token service)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Movies == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if deps.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}

	recorder := deps.Recorder
	if recorder == nil {
		recorder = audit.Nop{}
	}

	return &Server{
		cfg:           deps.Config,
		catalogCfg:    deps.Catalog,
		logger:        deps.Logger,
		version:       deps.Version,
		users:         deps.Users,
		movies:        deps.Movies,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		authenticator: auth.NewAuthenticator(deps.Users, deps.Hasher),
		recorder:      recorder,
		checks:        deps.Checks,
		mqtt:          deps.MQTT,
		dbStats:       deps.DBStats,
		startTime:     time.Now(),
	}, nil
}

// Handler returns the fully wired HTTP handler. Start serves the same
// handler; tests use it with httptest.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections.
//
// The listener is bound before Start returns, so a port conflict is reported
// to the caller. Requests are served in a background goroutine until Close().
//
// Parameters:
//   - ctx: Bounds the bind only; not used for listener lifetime
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", ln.Addr().String(),
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", ln.Addr().String())
			err = s.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// record sends an account event, filling in the timestamp.
func (s *Server) record(ctx context.Context, e audit.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.recorder.Record(ctx, e)
}
