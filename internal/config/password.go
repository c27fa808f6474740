package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig hashes and verifies passwords with bcrypt.
type PasswordConfig struct {
	BcryptCost int
}

func NewPasswordConfig(cost int) (*PasswordConfig, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordConfig{BcryptCost: cost}, nil
}

func (c *PasswordConfig) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (c *PasswordConfig) VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
