package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/movie-api/internal/catalog"
)

// handleListMovies returns the whole catalog ordered by title.
func (s *Server) handleListMovies(r *http.Request) (int, any, error) {
	movies, err := s.movies.List(r.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, movies, nil
}

// handleGetMovie returns one movie by exact title.
func (s *Server) handleGetMovie(r *http.Request) (int, any, error) {
	movie, err := s.movies.GetByTitle(r.Context(), chi.URLParam(r, "title"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, movie, nil
}

// handleGetGenre returns a genre's name and description.
func (s *Server) handleGetGenre(r *http.Request) (int, any, error) {
	genre, err := s.movies.GetGenre(r.Context(), chi.URLParam(r, "genreName"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, genre, nil
}

// handleGetDirector returns a director's details.
func (s *Server) handleGetDirector(r *http.Request) (int, any, error) {
	director, err := s.movies.GetDirector(r.Context(), chi.URLParam(r, "directorName"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, director, nil
}

// handleMoviesByGenre lists a genre's movies. No match is a 404.
func (s *Server) handleMoviesByGenre(r *http.Request) (int, any, error) {
	movies, err := s.movies.ListByGenre(r.Context(), chi.URLParam(r, "genreName"))
	if err != nil {
		return 0, nil, err
	}
	if len(movies) == 0 {
		return 0, nil, catalog.ErrGenreNotFound
	}
	return http.StatusOK, movies, nil
}

// handleMoviesByDirector lists a director's movies. No match is a 404.
func (s *Server) handleMoviesByDirector(r *http.Request) (int, any, error) {
	movies, err := s.movies.ListByDirector(r.Context(), chi.URLParam(r, "directorName"))
	if err != nil {
		return 0, nil, err
	}
	if len(movies) == 0 {
		return 0, nil, catalog.ErrDirectorNotFound
	}
	return http.StatusOK, movies, nil
}
