package auth

import (
	"context"
	"errors"
	"fmt"
)

// CredentialStore finds accounts by username.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// Authenticator checks a username and password against stored credentials.
type Authenticator struct {
	users  CredentialStore
	hasher *Hasher
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users CredentialStore, hasher *Hasher) *Authenticator {
	return &Authenticator{users: users, hasher: hasher}
}

// Authenticate returns the account for username when password matches.
//
// Both rejection reasons wrap ErrInvalidCredentials. Callers log which one
// occurred and show clients a single generic failure. An unknown username
// still costs one bcrypt comparison.
//
// Returns:
//   - *User: the authenticated account
//   - error: ErrIncorrectUsername, ErrIncorrectPassword, or a wrapped store error
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			a.hasher.burn(password)
			return nil, ErrIncorrectUsername
		}
		return nil, fmt.Errorf("looking up credentials: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}
