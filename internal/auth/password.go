package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

// dummyPassword feeds the hash compared against when a username is unknown.
const dummyPassword = "movieapi-timing-equaliser"

// Hasher hashes and verifies passwords with bcrypt. Each hash carries its
// own random salt and cost, so changing the configured cost only affects
// new hashes.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a Hasher using cost, clamped to bcrypt's supported
// range. Zero selects DefaultBcryptCost.
func NewHasher(cost int) (*Hasher, error) {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Cost returns the effective bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of plaintext. Passwords over 72 bytes are
// rejected by bcrypt; validation catches them first.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash never matches.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// burn spends the same work as a real Verify, for lookups that found no user.
func (h *Hasher) burn(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext)) //nolint:errcheck // Result deliberately unused
}
