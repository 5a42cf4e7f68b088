package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/movie-api/internal/catalog"
	"github.com/nerrad567/movie-api/internal/infrastructure/config"
	"github.com/nerrad567/movie-api/internal/infrastructure/database"
	"github.com/nerrad567/movie-api/internal/infrastructure/logging"
)

const testSecret = "test-secret-for-development-only-32chars"

// writeConfig writes a config file and points MOVIEAPI_CONFIG at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("MOVIEAPI_CONFIG", path)
	t.Setenv("MOVIEAPI_JWT_SECRET", "")
	t.Setenv("MOVIEAPI_DATABASE_DRIVER", "")
}

// sqliteConfig returns a config using a SQLite file under dir.
func sqliteConfig(dir string, port int, secret, seedFile string) string {
	return fmt.Sprintf(`
database:
  driver: sqlite
  path: %q
  wal_mode: true
  busy_timeout: 5

catalog:
  seed_file: %q

api:
  host: "127.0.0.1"
  port: %d

logging:
  level: error
  format: text
  output: stderr

security:
  jwt:
    secret: %q
  password:
    bcrypt_cost: 4
`, filepath.Join(dir, "movieapi.db"), seedFile, port, secret)
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()

	var lc net.ListenConfig
	ln, err := lc.Listen(t.Context(), "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("finding free port: %v", err)
	}
	defer ln.Close() //nolint:errcheck // Test cleanup
	return ln.Addr().(*net.TCPAddr).Port
}

// TestRun_InvalidConfig verifies run fails with an unparsable config file.
func TestRun_InvalidConfig(t *testing.T) {
	writeConfig(t, "database: [not a map")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an invalid config file")
	}
}

// TestRun_MissingSecret verifies run refuses to start without a signing secret.
func TestRun_MissingSecret(t *testing.T) {
	writeConfig(t, sqliteConfig(t.TempDir(), 8080, "", ""))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail without a JWT secret")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("error = %v, want it to name security.jwt.secret", err)
	}
}

// TestRun_MalformedSeed verifies a broken seed file stops startup.
func TestRun_MalformedSeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "movies.yaml")
	if err := os.WriteFile(seed, []byte("movies:\n  - description: untitled\n"), 0600); err != nil {
		t.Fatalf("writing seed: %v", err)
	}
	writeConfig(t, sqliteConfig(dir, freePort(t), testSecret, seed))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with a malformed seed file")
	}
}

// TestRun_SQLiteStartupAndShutdown starts the service on SQLite, serves a
// request, then shuts down on cancellation.
func TestRun_SQLiteStartupAndShutdown(t *testing.T) {
	dir := t.TempDir()
	port := freePort(t)
	seed, err := filepath.Abs(filepath.Join("..", "..", "configs", "movies.yaml"))
	if err != nil {
		t.Fatalf("resolving seed path: %v", err)
	}
	writeConfig(t, sqliteConfig(dir, port, testSecret, seed))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp, getErr := http.Get(url) //nolint:gosec // Test URL
		if getErr == nil {
			resp.Body.Close() //nolint:errcheck // Test cleanup
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up: %v", getErr)
		}
		select {
		case err := <-done:
			t.Fatalf("run() exited early: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run() = %v, want nil on shutdown", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run() did not return after cancellation")
	}

	db, err := database.Open(database.Config{Path: filepath.Join(dir, "movieapi.db")})
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	n, err := catalog.NewSQLiteRepository(db.DB).Count(t.Context())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 10 {
		t.Errorf("seeded movies = %d, want 10", n)
	}
}

// TestSeedCatalog_MissingFile verifies a missing seed file is skipped.
func TestSeedCatalog_MissingFile(t *testing.T) {
	cfg := config.CatalogConfig{SeedFile: filepath.Join(t.TempDir(), "absent.yaml")}
	if err := seedCatalog(t.Context(), cfg, nil, logging.Discard()); err != nil {
		t.Errorf("seedCatalog() = %v, want nil for a missing file", err)
	}
}

// TestSeedCatalog_Disabled verifies an empty seed path does nothing.
func TestSeedCatalog_Disabled(t *testing.T) {
	if err := seedCatalog(t.Context(), config.CatalogConfig{}, nil, logging.Discard()); err != nil {
		t.Errorf("seedCatalog() = %v, want nil", err)
	}
}

// TestOpenStores_UnsupportedDriver verifies an unknown driver is rejected.
func TestOpenStores_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "postgres"}}
	if _, err := openStores(t.Context(), cfg, logging.Discard()); err == nil {
		t.Error("openStores() should fail for an unsupported driver")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("MOVIEAPI_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("MOVIEAPI_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
