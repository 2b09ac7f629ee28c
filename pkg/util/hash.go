package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the bcrypt cost parameter.
var BcryptCost = 12

// HashPasswordBcrypt returns a bcrypt hash of the given plaintext password.
// The salt is part of the returned string.
func HashPasswordBcrypt(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePasswordBcrypt returns nil if the plaintext password matches the bcrypt hash.
func ComparePasswordBcrypt(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
