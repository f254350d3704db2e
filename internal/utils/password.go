package utils

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports a mismatch as bcrypt.ErrMismatchedHashAndPassword.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return bcrypt.ErrHashTooShort
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
