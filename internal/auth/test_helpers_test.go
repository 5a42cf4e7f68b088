package auth

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nerrad567/movie-api/internal/infrastructure/database"
	"github.com/nerrad567/movie-api/migrations"
)

// testDB opens an in-memory SQLite database with the schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(t.Context(), migrations.FS); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db.DB
}

// testHasher returns a Hasher at bcrypt's minimum cost to keep tests fast.
func testHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher() error = %v", err)
	}
	return h
}

// seedTestUser stores an account whose password is password.
func seedTestUser(t *testing.T, repo UserRepository, username, password string) *User {
	t.Helper()

	hash, err := testHasher(t).Hash(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	if err := repo.Create(t.Context(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}
