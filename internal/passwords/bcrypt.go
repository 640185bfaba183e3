package passwords

import (
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is given.
const DefaultBcryptCost = 12

// BcryptHash hashes plain with the given cost. A cost of zero means
// DefaultBcryptCost.
func BcryptHash(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost %d out of range: %w", cost, kerrors.ErrValidation)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%v: %w", err, kerrors.ErrValidation)
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// BcryptCompare reports whether plain matches hash. A mismatch is false
// with no error. A malformed hash is an ErrFormat error unless
// suppressErrors is set, in which case it is reported as false.
func BcryptCompare(plain, hash string, suppressErrors bool) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case suppressErrors:
		return false, nil
	}
	return false, fmt.Errorf("comparing password: %v: %w", err, kerrors.ErrFormat)
}
