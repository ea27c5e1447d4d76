package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// One landlord account logs in a few times a day; cost 8 keeps logins fast
// on small hosts.
const bcryptCost = 8

// MinPasswordLength applies to the seeded admin password. bcrypt ignores
// everything past 72 bytes, so longer passwords are refused rather than
// silently truncated.
const (
	MinPasswordLength = 8
	maxPasswordBytes  = 72
)

var ErrWeakPassword = errors.New("weak password")

// CheckPassword reports whether password is acceptable for a stored account.
func CheckPassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, MinPasswordLength)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: must be at most %d bytes", ErrWeakPassword, maxPasswordBytes)
	}
	return nil
}

// HashPassword hashes an account password for the users table.
func HashPassword(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a login attempt against the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
