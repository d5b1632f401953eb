package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns common.ErrUnauthorized when password does not match.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	return nil
}
