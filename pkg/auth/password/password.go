// Package password hashes and checks account passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"agrovision/pkg/apperr"
)

const MinLength = 6

// Hasher carries the bcrypt cost from configuration.
type Hasher struct{ cost int }

func NewHasher(cost int) Hasher { return Hasher{cost: cost} }

func (h Hasher) Hash(plain string) (string, error) {
	if err := Validate(plain); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Check reports whether plain matches hash. A malformed hash is an error.
func (Hasher) Check(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("check password: %w", err)
	}
}

func Validate(plain string) error {
	if len(plain) < MinLength {
		return apperr.Validation(fmt.Sprintf("Senha deve ter no mínimo %d caracteres", MinLength))
	}
	if len(plain) > 72 {
		return apperr.Validation("Senha deve ter no máximo 72 caracteres")
	}
	return nil
}
