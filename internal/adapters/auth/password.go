package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"clubmock/internal/domain"
)

// plainVerifier stores passwords as-is, matching the demo dataset where
// accounts carry plaintext passwords.
type plainVerifier struct{}

// NewPlainVerifier returns the demo plaintext password verifier.
func NewPlainVerifier() domain.PasswordVerifier {
	return plainVerifier{}
}

func (plainVerifier) Hash(password string) (string, error) {
	return password, nil
}

func (plainVerifier) Compare(stored, password string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordVerifier backed by bcrypt.
func NewBcryptHasher(cost int) domain.PasswordVerifier {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(stored, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
