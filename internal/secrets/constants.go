package secrets

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

const (
	// MinSecretSize is the minimum length of a root secret or auxiliary key.
	MinSecretSize = 32

	// KeySize is the length of every derived AES and HMAC key.
	KeySize = 32

	// CTRIVSize is the counter-mode header length.
	CTRIVSize = 16

	// CTRTagSize is the HMAC-SHA256 tag length.
	CTRTagSize = 32

	// GCMNonceSize is the AES-GCM header length.
	GCMNonceSize = 12

	// GCMTagSize is the AES-GCM tag length.
	GCMTagSize = 16

	// DefaultChunkSize is the read size Pipe uses when none is given.
	DefaultChunkSize = 64 * 1024
)

// HKDF context strings. Changing any of these changes every derived key.
const (
	gcmKeyInfo = "keysmith/aes-256-gcm/v1"
	ctrEncInfo = "keysmith/aes-256-ctr/encryption/v1"
	ctrMACInfo = "keysmith/aes-256-ctr/mac/v1"
)

// Algorithm identifies an envelope construct.
type Algorithm string

const (
	// AES256CTR is AES-256-CTR with an HMAC-SHA256 tag (encrypt-then-MAC).
	AES256CTR Algorithm = "aes-256-ctr"

	// AES256GCM is AES-256-GCM.
	AES256GCM Algorithm = "aes-256-gcm"
)

// ParseAlgorithm maps a user-supplied identifier to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aes-256-ctr", "aes256-ctr", "ctr":
		return AES256CTR, nil
	case "aes-256-gcm", "aes256-gcm", "gcm":
		return AES256GCM, nil
	default:
		return "", fmt.Errorf("%q: %w", s, kerrors.ErrUnsupportedAlgorithm)
	}
}

// HeaderSize returns the IV or nonce length that prefixes the envelope.
func (a Algorithm) HeaderSize() int {
	if a == AES256GCM {
		return GCMNonceSize
	}
	return CTRIVSize
}

// TagSize returns the length of the trailing authentication tag.
func (a Algorithm) TagSize() int {
	if a == AES256GCM {
		return GCMTagSize
	}
	return CTRTagSize
}

// Overhead is the number of bytes an envelope adds to its plaintext.
func (a Algorithm) Overhead() int {
	return a.HeaderSize() + a.TagSize()
}

func (a Algorithm) valid() error {
	switch a {
	case AES256CTR, AES256GCM:
		return nil
	}
	return fmt.Errorf("%q: %w", string(a), kerrors.ErrUnsupportedAlgorithm)
}

// Options carries the optional inputs shared by every engine call.
type Options struct {
	// Keys are auxiliary keys mixed into the derivation after the secret.
	Keys [][]byte

	// AAD is authenticated but not encrypted.
	AAD []byte

	// ReleaseUnverified makes stream decrypters return plaintext from Update
	// before the tag has been checked. Data released this way may be forged;
	// the caller learns that only when Final fails.
	ReleaseUnverified bool
}
