package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the cost of the digests in the client roster.
const PasswordCost = 10

var ErrEmptyPassword = errors.New("password is empty")

// HashPassword returns the bcrypt digest stored in the roster.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches digest. A malformed digest
// never matches.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
