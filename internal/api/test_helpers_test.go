package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nerrad567/movie-api/internal/audit"
	"github.com/nerrad567/movie-api/internal/auth"
	"github.com/nerrad567/movie-api/internal/catalog"
	"github.com/nerrad567/movie-api/internal/infrastructure/config"
	"github.com/nerrad567/movie-api/internal/infrastructure/database"
	"github.com/nerrad567/movie-api/internal/infrastructure/logging"
	"github.com/nerrad567/movie-api/migrations"
)

const testSecret = "api-test-secret-that-is-long-enough"

// eventLog captures recorded account events.
type eventLog struct {
	mu     sync.Mutex
	events []audit.Event
}

func (l *eventLog) Record(_ context.Context, e audit.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) find(entity, action, outcome string) (audit.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Entity == entity && e.Action == action && e.Outcome == outcome {
			return e, true
		}
	}
	return audit.Event{}, false
}

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

type staticConnection bool

func (c staticConnection) IsConnected() bool { return bool(c) }

// testEnv is a server over an in-memory SQLite store seeded with three movies.
type testEnv struct {
	srv     *Server
	handler http.Handler
	db      *database.DB
	users   *auth.SQLiteUserRepository
	movies  map[string]catalog.Movie // by title
	events  *eventLog
}

// testServer builds a test environment. Options adjust Deps before New.
func testServer(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(t.Context(), migrations.FS); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	users := auth.NewUserRepository(db.DB)
	movieRepo := catalog.NewSQLiteRepository(db.DB)
	events := &eventLog{}

	movies := make(map[string]catalog.Movie)
	for _, m := range testMovies() {
		if err := movieRepo.Create(t.Context(), &m); err != nil {
			t.Fatalf("creating %q: %v", m.Title, err)
		}
		movies[m.Title] = m
	}

	deps := Deps{
		Config: config.APIConfig{
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		Logger:   logging.Discard(),
		Version:  "test",
		Users:    users,
		Movies:   movieRepo,
		Hasher:   hasher,
		Tokens:   auth.NewTokenService(testSecret, time.Hour, users),
		Recorder: events,
		DBStats:  db.Stats,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &testEnv{
		srv:     srv,
		handler: srv.Handler(),
		db:      db,
		users:   users,
		movies:  movies,
		events:  events,
	}
}

func testMovies() []catalog.Movie {
	nolan := catalog.Director{Name: "Christopher Nolan", Bio: "British-American filmmaker."}
	scifi := catalog.Genre{Name: "Science Fiction", Description: "Speculative futures."}
	return []catalog.Movie{
		{Title: "Inception", Description: "Dream heists.", Genre: scifi, Director: nolan},
		{Title: "Interstellar", Description: "Wormhole travel.", Genre: scifi, Director: nolan},
		{
			Title:       "The Godfather",
			Description: "A crime dynasty.",
			Genre:       catalog.Genre{Name: "Crime", Description: "Stories of criminals."},
			Director:    catalog.Director{Name: "Francis Ford Coppola", Bio: "American filmmaker."},
		},
	}
}

// do sends a request through the router. An empty token sends no
// Authorization header.
func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and fails the test on error.
func (e *testEnv) register(t *testing.T, username, password string) auth.User {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `","email":"` + username + `@example.com"}`
	w := e.do(t, http.MethodPost, "/users", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s status = %d; body: %s", username, w.Code, w.Body.String())
	}
	var user auth.User
	decode(t, w, &user)
	return user
}

// login returns a bearer token for the account.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	w := e.do(t, http.MethodPost, "/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s status = %d; body: %s", username, w.Code, w.Body.String())
	}
	var resp loginResponse
	decode(t, w, &resp)
	return resp.Token
}

// account registers and logs in, returning the user and a token.
func (e *testEnv) account(t *testing.T, username string) (auth.User, string) {
	t.Helper()
	user := e.register(t, username, "Secret123")
	return user, e.login(t, username, "Secret123")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) Error {
	t.Helper()
	var e Error
	decode(t, w, &e)
	return e
}

var errCheckFailed = errors.New("check failed")
