package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"io"
)

// randReader is the IV and nonce source. Tests may replace it.
var randReader io.Reader = rand.Reader

// GenerateSecret turns a seed (for example a BIP-39 seed) into a 32-byte root secret.
func GenerateSecret(seed []byte) []byte {
	sum := sha256.Sum256(seed)
	return sum[:]
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, err
	}
	return b, nil
}
