package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `
movies:
  - title: "Inception"
    description: "A thief who steals corporate secrets through dream-sharing."
    genre:
      name: "Science Fiction"
      description: "Speculative futures."
    director:
      name: "Christopher Nolan"
      bio: "British-American filmmaker."
      birth_year: 1970
    actors: ["Leonardo DiCaprio", "Elliot Page"]
    image_url: "https://example.com/inception.jpg"
    featured: true
  - title: "The Godfather"
    genre:
      name: "Crime"
    director:
      name: "Francis Ford Coppola"
`

func TestParseSeed(t *testing.T) {
	movies, err := ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("ParseSeed() returned %d movies, want 2", len(movies))
	}

	m := movies[0]
	if m.Title != "Inception" || !m.Featured || m.ImageURL == "" {
		t.Errorf("movies[0] = %+v", m)
	}
	if m.Director.BirthYear == nil || *m.Director.BirthYear != 1970 {
		t.Errorf("Director.BirthYear = %v, want 1970", m.Director.BirthYear)
	}
	if len(m.Actors) != 2 {
		t.Errorf("Actors = %v, want 2 entries", m.Actors)
	}
	if movies[1].Director.BirthYear != nil {
		t.Errorf("movies[1].Director.BirthYear = %v, want nil", *movies[1].Director.BirthYear)
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "missing title",
			yaml:    "movies:\n  - description: untitled\n",
			wantErr: ErrInvalidMovie,
		},
		{
			name:    "duplicate title",
			yaml:    "movies:\n  - title: Heat\n  - title: Heat\n",
			wantErr: ErrMovieExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseSeed() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ParseSeed([]byte("movies: [unterminated")); err == nil {
		t.Error("ParseSeed() expected error for invalid YAML, got nil")
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0600); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}

	movies, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("LoadSeedFile() returned %d movies, want 2", len(movies))
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSeedFile(absent) error = %v, want os.ErrNotExist", err)
	}
}

func TestSeed(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	added, err := Seed(ctx, repo, sampleMovies(), discardLogger())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if added != 3 {
		t.Errorf("Seed() added = %d, want 3", added)
	}

	// A populated catalog is left alone.
	added, err = Seed(ctx, repo, []Movie{{Title: "Heat"}}, discardLogger())
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if added != 0 {
		t.Errorf("second Seed() added = %d, want 0", added)
	}
	if _, err := repo.GetByTitle(ctx, "Heat"); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("GetByTitle(Heat) error = %v, want ErrMovieNotFound", err)
	}
}

func TestSeed_ShippedFile(t *testing.T) {
	movies, err := LoadSeedFile(filepath.Join("..", "..", "configs", "movies.yaml"))
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(movies) != 10 {
		t.Errorf("shipped seed has %d movies, want 10", len(movies))
	}

	repo := NewSQLiteRepository(testDB(t))
	added, err := Seed(context.Background(), repo, movies, discardLogger())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if added != len(movies) {
		t.Errorf("Seed() added = %d, want %d", added, len(movies))
	}
}
