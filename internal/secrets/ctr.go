package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"hash"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// EncryptCTR seals plaintext as IV(16) || ciphertext || HMAC-SHA256(IV || AAD || ciphertext).
func EncryptCTR(secret, plaintext []byte, opts Options) ([]byte, error) {
	encKey, macKey, err := DeriveCTRKeys(secret, opts.Keys...)
	if err != nil {
		return nil, err
	}
	defer zero(encKey)
	defer zero(macKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	iv, err := randomBytes(CTRIVSize)
	if err != nil {
		return nil, fmt.Errorf("generating iv: %w", err)
	}

	out := make([]byte, CTRIVSize+len(plaintext), CTRIVSize+len(plaintext)+CTRTagSize)
	copy(out, iv)
	ct := out[CTRIVSize:]
	cipher.NewCTR(block, iv).XORKeyStream(ct, plaintext)

	mac := newCTRMAC(macKey, iv, opts.AAD)
	mac.Write(ct)
	return mac.Sum(out), nil
}

// DecryptCTR opens an envelope produced by EncryptCTR. The tag is checked
// before any plaintext is produced.
func DecryptCTR(secret, envelope []byte, opts Options) ([]byte, error) {
	encKey, macKey, err := DeriveCTRKeys(secret, opts.Keys...)
	if err != nil {
		return nil, err
	}
	defer zero(encKey)
	defer zero(macKey)

	if len(envelope) < CTRIVSize+CTRTagSize {
		return nil, fmt.Errorf("envelope is %d bytes, need at least %d: %w", len(envelope), CTRIVSize+CTRTagSize, kerrors.ErrFormat)
	}

	iv := envelope[:CTRIVSize]
	ct := envelope[CTRIVSize : len(envelope)-CTRTagSize]
	tag := envelope[len(envelope)-CTRTagSize:]

	mac := newCTRMAC(macKey, iv, opts.AAD)
	mac.Write(ct)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, kerrors.ErrAuthentication
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	plaintext := make([]byte, len(ct))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ct)
	return plaintext, nil
}

// newCTRMAC returns an HMAC already fed with the IV and the AAD.
func newCTRMAC(macKey, iv, aad []byte) hash.Hash {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(aad)
	return mac
}
