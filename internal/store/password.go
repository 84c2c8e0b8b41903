package store

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"finmatch-backend/internal/common"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var errEmptyPassword = errors.New("empty password")

// HashPassword returns a salted bcrypt hash of plaintext. Passwords longer
// than MaxPasswordBytes fail with common.ErrValidation.
func HashPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", errEmptyPassword
	}
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("hash password: %w: %w", common.ErrValidation, bcrypt.ErrPasswordTooLong)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword reports whether plaintext matches hash. bcrypt compares in
// constant time; a malformed hash simply yields false.
func VerifyPassword(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
