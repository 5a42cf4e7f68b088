package catalog

import (
	"database/sql"
	"log/slog"
	"testing"

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

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func year(y int) *int { return &y }

// sampleMovies returns three movies over two genres and two directors.
func sampleMovies() []Movie {
	return []Movie{
		{
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through dream-sharing.",
			Genre:       Genre{Name: "Science Fiction", Description: "Speculative futures."},
			Director:    Director{Name: "Christopher Nolan", Bio: "British-American filmmaker.", BirthYear: year(1970)},
			Actors:      []string{"Leonardo DiCaprio", "Elliot Page"},
			ImageURL:    "https://example.com/inception.jpg",
			Featured:    true,
		},
		{
			Title:       "Interstellar",
			Description: "Explorers travel through a wormhole.",
			Genre:       Genre{Name: "Science Fiction", Description: "Speculative futures."},
			Director:    Director{Name: "Christopher Nolan", Bio: "British-American filmmaker.", BirthYear: year(1970)},
			Actors:      []string{"Matthew McConaughey"},
		},
		{
			Title:       "The Godfather",
			Description: "The aging patriarch of a crime dynasty.",
			Genre:       Genre{Name: "Crime", Description: "Stories of criminals."},
			Director:    Director{Name: "Francis Ford Coppola", Bio: "American filmmaker.", BirthYear: year(1939)},
		},
	}
}

// seedRepo inserts sampleMovies into repo.
func seedRepo(t *testing.T, repo Repository) []Movie {
	t.Helper()

	movies := sampleMovies()
	for i := range movies {
		if err := repo.Create(t.Context(), &movies[i]); err != nil {
			t.Fatalf("creating %q: %v", movies[i].Title, err)
		}
	}
	return movies
}
