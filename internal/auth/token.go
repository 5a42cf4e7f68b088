package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the bearer token lifetime when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims are the JWT claims carried by a bearer token. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// UserLookup resolves a token subject to its current account.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// TokenService issues and verifies HS256 bearer tokens. The secret is fixed
// at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
	now    func() time.Time
}

// NewTokenService creates a TokenService. A non-positive ttl selects
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, users UserLookup) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		now:    time.Now,
	}
}

// Issue signs a token for user and returns it with its expiry.
func (s *TokenService) Issue(user *User) (string, time.Time, error) {
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(s.ttl))

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
			ID:        uuid.NewString(),
		},
		Username: user.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt.Time, nil
}

// Verify checks the token's signature and expiry, then re-reads the subject
// so a deleted account stops authenticating immediately.
//
// Returns:
//   - *User: the subject's current record
//   - error: ErrTokenInvalid, ErrTokenExpired or ErrUnknownSubject; store
//     failures are wrapped and returned as-is
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is case-insensitive.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrTokenMissing
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}
