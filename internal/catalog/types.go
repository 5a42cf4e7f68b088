package catalog

import "errors"

// Movie is a catalog entry. Title is unique.
type Movie struct {
	ID          string   `json:"id" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Genre       Genre    `json:"genre" yaml:"genre"`
	Director    Director `json:"director" yaml:"director"`
	Actors      []string `json:"actors" yaml:"actors"`
	ImageURL    string   `json:"image_url" yaml:"image_url"`
	Featured    bool     `json:"featured" yaml:"featured"`
}

// Genre is embedded in each movie.
type Genre struct {
	Name        string `json:"name" yaml:"name" bson:"name"`
	Description string `json:"description" yaml:"description" bson:"description"`
}

// Director is embedded in each movie. Birth and death years are optional.
type Director struct {
	Name      string `json:"name" yaml:"name" bson:"name"`
	Bio       string `json:"bio" yaml:"bio" bson:"bio"`
	BirthYear *int   `json:"birth_year,omitempty" yaml:"birth_year,omitempty" bson:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty" yaml:"death_year,omitempty" bson:"death_year,omitempty"`
}

var (
	// ErrMovieNotFound is returned when no movie matches a title or ID.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrGenreNotFound is returned when no movie carries the named genre.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrDirectorNotFound is returned when no movie carries the named director.
	ErrDirectorNotFound = errors.New("director not found")

	// ErrMovieExists is returned when inserting a duplicate title.
	ErrMovieExists = errors.New("movie title already exists")

	// ErrInvalidMovie is returned when a movie has no title.
	ErrInvalidMovie = errors.New("movie title is required")
)
