package workflows

import (
	"strings"

	"github.com/PolarWolf314/keysmith/internal/keys"
	"github.com/PolarWolf314/keysmith/internal/secrets"
)

// SupportsKeyAlgorithm reports whether key pairs can be generated for alg.
func SupportsKeyAlgorithm(alg string) bool {
	return keys.SupportsAlgorithm(alg)
}

// SupportsEncryptAlgorithm reports whether secrets can be generated and
// used for alg. "aes256" names the secret family; the envelope identifiers
// accepted by secrets.ParseAlgorithm are accepted too.
func SupportsEncryptAlgorithm(alg string) bool {
	alg = strings.ToLower(strings.TrimSpace(alg))
	if alg == "aes256" {
		return true
	}
	if alg == "" {
		return false
	}
	_, err := secrets.ParseAlgorithm(alg)
	return err == nil
}
