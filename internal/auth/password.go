package auth

import (
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("argon.HashEncoded: %w", err)
	}
	return string(encoded), nil
}

// VerifyPassword reports false for an empty hash, which OAuth-only accounts carry.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}

	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("argon2.VerifyEncoded: %w", err)
	}
	return ok, nil
}
