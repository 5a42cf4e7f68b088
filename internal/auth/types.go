package auth

import (
	"errors"
	"fmt"
	"time"
)

// User is an account. PasswordHash always holds a bcrypt hash and is never
// serialised. FavoriteMovies is a set of movie IDs: no duplicates, order
// carries no meaning.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Birthday       string    `json:"birthday,omitempty"` // YYYY-MM-DD
	FavoriteMovies []string  `json:"favorite_movies"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasFavorite reports whether movieID is in the user's favorites.
func (u *User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectUsername  = fmt.Errorf("%w: incorrect username", ErrInvalidCredentials)
	ErrIncorrectPassword  = fmt.Errorf("%w: incorrect password", ErrInvalidCredentials)

	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	ErrTokenMissing   = errors.New("bearer token missing")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrUnknownSubject = errors.New("token subject no longer exists")

	ErrForbidden = errors.New("permission denied")
)
