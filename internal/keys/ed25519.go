package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// Ed25519 is the only supported key pair algorithm.
const Ed25519 = "ed25519"

// SupportsAlgorithm reports whether alg names a supported key pair algorithm.
func SupportsAlgorithm(alg string) bool {
	return strings.EqualFold(alg, Ed25519)
}

// GenerateKeyPair derives an Ed25519 key pair from the first 32 bytes of
// seed. SK is the 32-byte private seed and PK the 32-byte public key.
func GenerateKeyPair(seed []byte) (store.KeyPair, error) {
	if len(seed) < ed25519.SeedSize {
		return store.KeyPair{}, fmt.Errorf("seed is %d bytes, need at least %d: %w", len(seed), ed25519.SeedSize, kerrors.ErrValidation)
	}
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	pub := priv.Public().(ed25519.PublicKey)

	return store.KeyPair{
		SK: append([]byte(nil), priv.Seed()...),
		PK: append([]byte(nil), pub...),
	}, nil
}

// privateKey accepts either a 32-byte seed or a 64-byte expanded key.
func privateKey(sk []byte) (ed25519.PrivateKey, error) {
	switch len(sk) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(sk), nil
	case ed25519.PrivateKeySize:
		return ed25519.NewKeyFromSeed(sk[:ed25519.SeedSize]), nil
	}
	return nil, fmt.Errorf("private key is %d bytes: %w", len(sk), kerrors.ErrValidation)
}

func publicKey(pk []byte) (ed25519.PublicKey, error) {
	if len(pk) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %d bytes, want %d: %w", len(pk), ed25519.PublicKeySize, kerrors.ErrValidation)
	}
	return ed25519.PublicKey(pk), nil
}

// Sign signs message with sk.
func Sign(sk, message []byte) ([]byte, error) {
	priv, err := privateKey(sk)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether sig is a valid signature of message by pk.
// Malformed keys or signatures are errors.
func Verify(pk, message, sig []byte) (bool, error) {
	pub, err := publicKey(pk)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, fmt.Errorf("signature is %d bytes, want %d: %w", len(sig), ed25519.SignatureSize, kerrors.ErrValidation)
	}
	return ed25519.Verify(pub, message, sig), nil
}

// SafeVerify is Verify with malformed input reported as false.
func SafeVerify(pk, message, sig []byte) bool {
	ok, err := Verify(pk, message, sig)
	return err == nil && ok
}

// SignString signs a UTF-8 message and returns the signature in base64.
func SignString(sk []byte, message string) (string, error) {
	sig, err := Sign(sk, []byte(message))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyString checks a base64 signature produced by SignString.
func VerifyString(pk []byte, message, sig string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false, fmt.Errorf("decoding signature: %v: %w", err, kerrors.ErrValidation)
	}
	return Verify(pk, []byte(message), raw)
}

// SafeVerifyString is VerifyString with malformed input reported as false.
func SafeVerifyString(pk []byte, message, sig string) bool {
	ok, err := VerifyString(pk, message, sig)
	return err == nil && ok
}
