package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
}

// PasswordVerifier compares a plaintext password against a stored hash.
type PasswordVerifier interface {
	Compare(ctx context.Context, hashedPassword, password string) error
}

// BcryptPasswordService implements PasswordHasher and PasswordVerifier with
// bcrypt.
type BcryptPasswordService struct {
	cost int
}

var (
	_ PasswordHasher   = (*BcryptPasswordService)(nil)
	_ PasswordVerifier = (*BcryptPasswordService)(nil)
)

// NewBcryptPasswordService creates a BcryptPasswordService with the given
// cost. Costs outside bcrypt's range fall back to the library default.
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

// Hash returns the bcrypt hash of the password.
func (s *BcryptPasswordService) Hash(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare checks the password against the stored hash. Any mismatch maps to
// ErrInvalidCredentials so callers cannot distinguish failure modes.
func (s *BcryptPasswordService) Compare(ctx context.Context, hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("comparing password: %w", err)
	}
	return nil
}
