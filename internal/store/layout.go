package store

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// File name suffixes.
const (
	SecretSuffix     = ".secret.key"
	PrivateKeySuffix = ".sk.key"
	PublicKeySuffix  = ".pk.key"
	indexInfix       = ".index."
	indexSuffix      = ".json"
)

// Kind names used in index file names.
const (
	KindSecrets  = "secrets"
	KindKeyPairs = "keypairs"
)

// baseName is <name> or <name>.v<version>. Version 0 means unversioned.
func baseName(name string, version int) string {
	if version == 0 {
		return name
	}
	return fmt.Sprintf("%s.v%d", name, version)
}

// SecretFile returns the file name holding a secret.
func SecretFile(name string, version int) string {
	return baseName(name, version) + SecretSuffix
}

// KeyPairFiles returns the file names holding a private and public key.
func KeyPairFiles(name string, version int) (sk, pk string) {
	b := baseName(name, version)
	return b + PrivateKeySuffix, b + PublicKeySuffix
}

// IndexFile returns the file name of the index for kind.
func IndexFile(indexName, kind string) string {
	return indexName + indexInfix + kind + indexSuffix
}

// ParseIndexFile splits an index file name into its index name and kind.
// ok is false for anything that is not an index file.
func ParseIndexFile(fileName string) (indexName, kind string, ok bool) {
	for _, k := range []string{KindSecrets, KindKeyPairs} {
		suffix := indexInfix + k + indexSuffix
		if strings.HasSuffix(fileName, suffix) && len(fileName) > len(suffix) {
			return strings.TrimSuffix(fileName, suffix), k, true
		}
	}
	return "", "", false
}

// ValidateName rejects names that would escape the base directory or
// collide with the versioned layout.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("name is empty: %w", kerrors.ErrValidation)
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return fmt.Errorf("name %q contains a path separator: %w", name, kerrors.ErrValidation)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("name %q starts with a dot: %w", name, kerrors.ErrValidation)
	}
	return nil
}
