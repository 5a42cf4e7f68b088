package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/movie-api/internal/infrastructure/database"
)

// UserRepository is the credential store. Implementations must keep
// usernames unique and treat favorites as a set.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)

	// Update writes username, email, birthday and password hash.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error

	// AddFavorite and RemoveFavorite are idempotent and return the updated user.
	AddFavorite(ctx context.Context, userID, movieID string) (*User, error)
	RemoveFavorite(ctx context.Context, userID, movieID string) (*User, error)

	Count(ctx context.Context) (int, error)
}

// SQLiteUserRepository implements UserRepository using SQLite.
// Favorites live in user_favorites, keyed by (user_id, movie_id).
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, birthday, created_at, updated_at"

// Create inserts a new account. The ID is generated if empty.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		nullString(user.Birthday), formatTime(now), formatTime(now),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating user: %w", err)
	}

	for _, movieID := range user.FavoriteMovies {
		if err := insertFavorite(ctx, tx, user.ID, movieID, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByUsername retrieves an account by exact username.
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// List returns all accounts ordered by creation date.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC, username ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	favorites, err := r.allFavorites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if ids, ok := favorites[users[i].ID]; ok {
			users[i].FavoriteMovies = ids
		}
	}
	return users, nil
}

// Update writes the account's mutable fields.
func (r *SQLiteUserRepository) Update(ctx context.Context, user *User) error {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, birthday = ?, updated_at = ? WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, nullString(user.Birthday), formatTime(now), user.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("updating user: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	user.UpdatedAt = now
	return nil
}

// Delete removes an account and, by cascade, its favorites.
func (r *SQLiteUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddFavorite adds movieID to the user's favorites. Adding a present movie
// changes nothing.
func (r *SQLiteUserRepository) AddFavorite(ctx context.Context, userID, movieID string) (*User, error) {
	return r.changeFavorites(ctx, userID, func(tx *sql.Tx, now time.Time) error {
		return insertFavorite(ctx, tx, userID, movieID, now)
	})
}

// RemoveFavorite removes movieID from the user's favorites. Removing an
// absent movie changes nothing.
func (r *SQLiteUserRepository) RemoveFavorite(ctx context.Context, userID, movieID string) (*User, error) {
	return r.changeFavorites(ctx, userID, func(tx *sql.Tx, _ time.Time) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM user_favorites WHERE user_id = ? AND movie_id = ?", userID, movieID,
		); err != nil {
			return fmt.Errorf("removing favorite: %w", err)
		}
		return nil
	})
}

// Count returns the number of accounts.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// changeFavorites touches updated_at, applies change and returns the
// resulting account, all in one transaction.
func (r *SQLiteUserRepository) changeFavorites(ctx context.Context, userID string, change func(*sql.Tx, time.Time) error) (*User, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	result, err := tx.ExecContext(ctx, "UPDATE users SET updated_at = ? WHERE id = ?", formatTime(now), userID)
	if err != nil {
		return nil, fmt.Errorf("touching user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 { //nolint:errcheck // always succeeds on SQLite
		return nil, ErrUserNotFound
	}

	if err := change(tx, now); err != nil {
		return nil, err
	}

	user, err := scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if err != nil {
		return nil, err
	}
	if user.FavoriteMovies, err = favoritesOf(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing favorites: %w", err)
	}
	return user, nil
}

func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if u.FavoriteMovies, err = favoritesOf(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepository) allFavorites(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT user_id, movie_id FROM user_favorites ORDER BY added_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	favorites := make(map[string][]string)
	for rows.Next() {
		var userID, movieID string
		if err := rows.Scan(&userID, &movieID); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites[userID] = append(favorites[userID], movieID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return favorites, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func favoritesOf(ctx context.Context, q querier, userID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT movie_id FROM user_favorites WHERE user_id = ? ORDER BY added_at, rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return ids, nil
}

func insertFavorite(ctx context.Context, tx *sql.Tx, userID, movieID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_favorites (user_id, movie_id, added_at) VALUES (?, ?, ?)",
		userID, movieID, formatTime(now),
	); err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var u User
	var birthday sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &birthday, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Birthday = birthday.String
	u.FavoriteMovies = []string{}
	u.CreatedAt, _ = time.Parse(timeLayout, createdAt) //nolint:errcheck // format is controlled
	u.UpdatedAt, _ = time.Parse(timeLayout, updatedAt) //nolint:errcheck // format is controlled

	return &u, nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
