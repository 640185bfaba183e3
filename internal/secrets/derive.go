package secrets

import (
	"crypto/sha256"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"

	"golang.org/x/crypto/hkdf"
)

// DeriveGCMKey derives the AES-256-GCM key for secret and the auxiliary keys.
func DeriveGCMKey(secret []byte, keys ...[]byte) ([]byte, error) {
	ikm, err := inputKeyMaterial(secret, keys)
	if err != nil {
		return nil, err
	}
	defer zero(ikm)

	return expand(ikm, gcmKeyInfo)
}

// DeriveCTRKeys derives the AES-256-CTR encryption key and the HMAC-SHA256
// key. Both come from the same input key material under different contexts.
func DeriveCTRKeys(secret []byte, keys ...[]byte) (encKey, macKey []byte, err error) {
	ikm, err := inputKeyMaterial(secret, keys)
	if err != nil {
		return nil, nil, err
	}
	defer zero(ikm)

	if encKey, err = expand(ikm, ctrEncInfo); err != nil {
		return nil, nil, err
	}
	if macKey, err = expand(ikm, ctrMACInfo); err != nil {
		zero(encKey)
		return nil, nil, err
	}
	return encKey, macKey, nil
}

// ValidateSecret checks the length of the secret and of every auxiliary key.
func ValidateSecret(secret []byte, keys ...[]byte) error {
	if len(secret) < MinSecretSize {
		return fmt.Errorf("secret is %d bytes, need at least %d: %w", len(secret), MinSecretSize, kerrors.ErrValidation)
	}
	for i, k := range keys {
		if len(k) < MinSecretSize {
			return fmt.Errorf("key %d is %d bytes, need at least %d: %w", i, len(k), MinSecretSize, kerrors.ErrValidation)
		}
	}
	return nil
}

func inputKeyMaterial(secret []byte, keys [][]byte) ([]byte, error) {
	if err := ValidateSecret(secret, keys...); err != nil {
		return nil, err
	}

	n := len(secret)
	for _, k := range keys {
		n += len(k)
	}
	ikm := make([]byte, 0, n)
	ikm = append(ikm, secret...)
	for _, k := range keys {
		ikm = append(ikm, k...)
	}
	return ikm, nil
}

func expand(ikm []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, nil, []byte(info))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return key, nil
}

// zero overwrites b. Best effort: the runtime may have copied it already.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
