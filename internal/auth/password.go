// Package auth provides password hashing and session-token handling. The
// quota engine treats authentication as a collaborator: it only consumes
// the resolved identity produced here.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
)

const bcryptCost = 12

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against the stored hash.
// Returns domain.ErrInvalidCredentials on mismatch.
func CheckPassword(hash, candidate string) error {
	if hash == "" {
		return domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
