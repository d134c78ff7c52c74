package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DefaultPassword derives the initial password for a kiosk-registered
// user: the email's local part followed by "123". Users are expected to
// change it on first login.
func DefaultPassword(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		local = email
	}
	return local + "123"
}
