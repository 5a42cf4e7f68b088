package api

import (
	"net/http"
	"testing"

	"github.com/nerrad567/movie-api/internal/catalog"
)

func TestListMovies(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	w := env.do(t, http.MethodGet, "/movies", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var movies []catalog.Movie
	decode(t, w, &movies)

	want := []string{"Inception", "Interstellar", "The Godfather"}
	if len(movies) != len(want) {
		t.Fatalf("got %d movies, want %d", len(movies), len(want))
	}
	for i, title := range want {
		if movies[i].Title != title {
			t.Errorf("movies[%d] = %q, want %q", i, movies[i].Title, title)
		}
	}
}

func TestListMovies_Unauthenticated(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodGet, "/movies", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestGetMovie(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	w := env.do(t, http.MethodGet, "/movies/The%20Godfather", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var movie catalog.Movie
	decode(t, w, &movie)
	if movie.ID != env.movies["The Godfather"].ID || movie.Director.Name != "Francis Ford Coppola" {
		t.Errorf("movie = %+v", movie)
	}

	w = env.do(t, http.MethodGet, "/movies/Jaws", "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing title status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestMoviesByGenre(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	tests := []struct {
		path  string
		want  int
		count int
	}{
		{"/movies/genre/Science%20Fiction", http.StatusOK, 2},
		{"/movies/genre/science%20fiction", http.StatusOK, 2},
		{"/movies/genre/Crime", http.StatusOK, 1},
		{"/movies/genre/Western", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, "", token)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				if e := decodeError(t, w); e.Message != catalog.ErrGenreNotFound.Error() {
					t.Errorf("message = %q", e.Message)
				}
				return
			}
			var movies []catalog.Movie
			decode(t, w, &movies)
			if len(movies) != tt.count {
				t.Errorf("got %d movies, want %d", len(movies), tt.count)
			}
		})
	}
}

func TestMoviesByDirector(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	w := env.do(t, http.MethodGet, "/movies/director/christopher%20nolan", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var movies []catalog.Movie
	decode(t, w, &movies)
	if len(movies) != 2 {
		t.Errorf("got %d movies, want 2", len(movies))
	}

	w = env.do(t, http.MethodGet, "/movies/director/Nobody", "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown director status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetGenre(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	w := env.do(t, http.MethodGet, "/genres/crime", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var genre catalog.Genre
	decode(t, w, &genre)
	if genre.Name != "Crime" || genre.Description != "Stories of criminals." {
		t.Errorf("genre = %+v", genre)
	}

	w = env.do(t, http.MethodGet, "/genres/Western", "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown genre status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetDirector(t *testing.T) {
	env := testServer(t)
	_, token := env.account(t, "alice01")

	w := env.do(t, http.MethodGet, "/directors/Christopher%20Nolan", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var director catalog.Director
	decode(t, w, &director)
	if director.Name != "Christopher Nolan" || director.Bio == "" {
		t.Errorf("director = %+v", director)
	}

	w = env.do(t, http.MethodGet, "/directors/Nobody", "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown director status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if e := decodeError(t, w); e.Message != catalog.ErrDirectorNotFound.Error() {
		t.Errorf("message = %q", e.Message)
	}
}
