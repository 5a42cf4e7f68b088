package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// Resilience tests check that the account store holds its invariants under
// concurrent use and after deletions. They use the TestResilience_ prefix
// for easy filtering:
//
//	go test -run TestResilience -race ./internal/auth/...

// TestResilience_ConcurrentFavoriteAdds verifies that many goroutines adding
// the same movie leave exactly one favorite entry.
func TestResilience_ConcurrentFavoriteAdds(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, repo, "concurrent", "password123")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddFavorite(ctx, user.ID, "movie-shared")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent AddFavorite() error = %v", err)
		}
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.FavoriteMovies) != 1 || got.FavoriteMovies[0] != "movie-shared" {
		t.Errorf("FavoriteMovies = %v, want [movie-shared]", got.FavoriteMovies)
	}
}

// TestResilience_ConcurrentDistinctFavorites verifies that concurrent adds
// of different movies are all kept.
func TestResilience_ConcurrentDistinctFavorites(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, repo, "collector", "password123")

	const workers = 8
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddFavorite(ctx, user.ID, fmt.Sprintf("movie-%d", i)); err != nil {
				t.Errorf("AddFavorite(movie-%d) error = %v", i, err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.FavoriteMovies) != workers {
		t.Errorf("FavoriteMovies has %d entries, want %d: %v", len(got.FavoriteMovies), workers, got.FavoriteMovies)
	}
}

// TestResilience_ConcurrentRegistration verifies that racing registrations
// for one username produce exactly one account.
func TestResilience_ConcurrentRegistration(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	const workers = 6
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, &User{
				Username:     "racinguser",
				Email:        fmt.Sprintf("racer%d@example.com", i),
				PasswordHash: "hash",
			})
		}()
	}

	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrUsernameExists):
			duplicates++
		default:
			t.Errorf("unexpected Create() error = %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if duplicates != workers-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, workers-1)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

// TestResilience_DeletedUserToken verifies that a token issued before an
// account was deleted stops authenticating at once.
func TestResilience_DeletedUserToken(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, repo, "shortlived", "password123")
	svc := NewTokenService(testSecret, time.Hour, repo)

	token, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := svc.Verify(ctx, token); err != nil {
		t.Fatalf("Verify() before delete error = %v", err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := svc.Verify(ctx, token); !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("Verify() after delete error = %v, want ErrUnknownSubject", err)
	}
}

// TestResilience_RenamedUserKeepsToken verifies that tokens are bound to the
// account ID, not the username.
func TestResilience_RenamedUserKeepsToken(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, repo, "beforename", "password123")
	svc := NewTokenService(testSecret, time.Hour, repo)

	token, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	user.Username = "aftername"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify() after rename error = %v", err)
	}
	if got.Username != "aftername" {
		t.Errorf("Verify() Username = %q, want aftername", got.Username)
	}
}
