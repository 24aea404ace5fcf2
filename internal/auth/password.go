package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ErrNoEmptyPassword rejects hashing an empty secret.
var ErrNoEmptyPassword = errors.New("auth: password must not be empty")

// ErrMismatchedHashAndPassword is returned when a password does not match the
// stored hash.
var ErrMismatchedHashAndPassword = errors.New("auth: password does not match")

// HashPassword will generate a password hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// MeetsPasswordPolicy reports whether a candidate password satisfies the
// strength policy: 8 to 16 characters with at least one uppercase letter and
// at least one non-alphanumeric character. Every signup and password-change
// path must check this before hashing.
func MeetsPasswordPolicy(password string) bool {
	runes := []rune(password)
	if len(runes) < 8 || len(runes) > 16 {
		return false
	}

	var hasUpper, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSpecial = true
		}
	}
	return hasUpper && hasSpecial
}
