package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/movie-api/internal/infrastructure/database"
)

// Repository defines the interface for catalog persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Movie, error)
	GetByID(ctx context.Context, id string) (*Movie, error)
	GetByTitle(ctx context.Context, title string) (*Movie, error)

	// Genre and director lookups match names case-insensitively.
	GetGenre(ctx context.Context, name string) (*Genre, error)
	GetDirector(ctx context.Context, name string) (*Director, error)
	ListByGenre(ctx context.Context, name string) ([]Movie, error)
	ListByDirector(ctx context.Context, name string) ([]Movie, error)

	// Create is used by the seeder only.
	Create(ctx context.Context, movie *Movie) error
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed catalog repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const movieColumns = `id, title, description, genre_name, genre_description,
	director_name, director_bio, director_birth_year, director_death_year,
	actors, image_url, featured`

// List returns every movie ordered by title.
func (r *SQLiteRepository) List(ctx context.Context) ([]Movie, error) {
	return r.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY title")
}

// GetByID returns a single movie by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Movie, error) {
	return scanMovie(r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
}

// GetByTitle returns a single movie by exact title.
func (r *SQLiteRepository) GetByTitle(ctx context.Context, title string) (*Movie, error) {
	return scanMovie(r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE title = ?", title))
}

// GetGenre returns the genre as recorded on the first matching movie.
func (r *SQLiteRepository) GetGenre(ctx context.Context, name string) (*Genre, error) {
	const query = `SELECT genre_name, genre_description FROM movies
		WHERE genre_name = ? COLLATE NOCASE ORDER BY title LIMIT 1`

	var g Genre
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&g.Name, &g.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("querying genre: %w", err)
	}
	return &g, nil
}

// GetDirector returns the director as recorded on the first matching movie.
func (r *SQLiteRepository) GetDirector(ctx context.Context, name string) (*Director, error) {
	const query = `SELECT director_name, director_bio, director_birth_year, director_death_year
		FROM movies WHERE director_name = ? COLLATE NOCASE ORDER BY title LIMIT 1`

	var d Director
	var born, died sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&d.Name, &d.Bio, &born, &died); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, fmt.Errorf("querying director: %w", err)
	}
	d.BirthYear = intPtr(born)
	d.DeathYear = intPtr(died)
	return &d, nil
}

// ListByGenre returns the movies of a genre ordered by title.
func (r *SQLiteRepository) ListByGenre(ctx context.Context, name string) ([]Movie, error) {
	return r.queryMovies(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE genre_name = ? COLLATE NOCASE ORDER BY title", name)
}

// ListByDirector returns the movies of a director ordered by title.
func (r *SQLiteRepository) ListByDirector(ctx context.Context, name string) ([]Movie, error) {
	return r.queryMovies(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE director_name = ? COLLATE NOCASE ORDER BY title", name)
}

// Create inserts a movie. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, movie *Movie) error {
	if movie.Title == "" {
		return ErrInvalidMovie
	}
	if movie.ID == "" {
		movie.ID = uuid.NewString()
	}
	if movie.Actors == nil {
		movie.Actors = []string{}
	}

	actors, err := json.Marshal(movie.Actors)
	if err != nil {
		return fmt.Errorf("encoding actors: %w", err)
	}

	const query = `INSERT INTO movies (` + movieColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		movie.ID, movie.Title, movie.Description,
		movie.Genre.Name, movie.Genre.Description,
		movie.Director.Name, movie.Director.Bio,
		nullInt(movie.Director.BirthYear), nullInt(movie.Director.DeathYear),
		string(actors), movie.ImageURL, movie.Featured,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrMovieExists
		}
		return fmt.Errorf("inserting movie %q: %w", movie.Title, err)
	}
	return nil
}

// Count returns the number of movies.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) queryMovies(ctx context.Context, query string, args ...any) ([]Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	movies := []Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movies: %w", err)
	}
	return movies, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*Movie, error) {
	var m Movie
	var born, died sql.NullInt64
	var actors string

	err := s.Scan(&m.ID, &m.Title, &m.Description,
		&m.Genre.Name, &m.Genre.Description,
		&m.Director.Name, &m.Director.Bio, &born, &died,
		&actors, &m.ImageURL, &m.Featured,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("scanning movie: %w", err)
	}

	m.Director.BirthYear = intPtr(born)
	m.Director.DeathYear = intPtr(died)
	if err := json.Unmarshal([]byte(actors), &m.Actors); err != nil {
		return nil, fmt.Errorf("decoding actors of %q: %w", m.Title, err)
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return &m, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
