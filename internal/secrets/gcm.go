package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// EncryptGCM seals plaintext as nonce(12) || ciphertext || tag(16).
func EncryptGCM(secret, plaintext []byte, opts Options) ([]byte, error) {
	aead, err := newGCM(secret, opts.Keys)
	if err != nil {
		return nil, err
	}

	nonce, err := randomBytes(GCMNonceSize)
	if err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, opts.AAD), nil
}

// DecryptGCM opens an envelope produced by EncryptGCM.
func DecryptGCM(secret, envelope []byte, opts Options) ([]byte, error) {
	aead, err := newGCM(secret, opts.Keys)
	if err != nil {
		return nil, err
	}

	if len(envelope) < GCMNonceSize+GCMTagSize {
		return nil, fmt.Errorf("envelope is %d bytes, need at least %d: %w", len(envelope), GCMNonceSize+GCMTagSize, kerrors.ErrFormat)
	}

	nonce, ct := envelope[:GCMNonceSize], envelope[GCMNonceSize:]
	plaintext, err := aead.Open(nil, nonce, ct, opts.AAD)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	return plaintext, nil
}

func newGCM(secret []byte, keys [][]byte) (cipher.AEAD, error) {
	key, err := DeriveGCMKey(secret, keys...)
	if err != nil {
		return nil, err
	}
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return aead, nil
}
