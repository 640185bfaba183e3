package store

import (
	"fmt"
	"path/filepath"
)

// Kind describes how one type of material maps onto files.
type Kind[M any, R Record] interface {
	// Type is the kind name used in index file names.
	Type() string
	// Record returns the record for name and version under dir.
	Record(dir, name string, version int) R
	// Files lists every file a record refers to.
	Files(r R) []string
	Read(fsys FS, r R) (M, error)
	Write(fsys FS, r R, m M) error
}

// SecretRecord is an entry of a secrets index.
type SecretRecord struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (r SecretRecord) RecordName() string { return r.Name }
func (r SecretRecord) RecordVersion() int { return r.Version }

// SecretKind stores a secret as one raw file.
type SecretKind struct{}

func (SecretKind) Type() string { return KindSecrets }

func (SecretKind) Record(dir, name string, version int) SecretRecord {
	return SecretRecord{
		File:    filepath.Join(dir, SecretFile(name, version)),
		Name:    name,
		Version: version,
	}
}

func (SecretKind) Files(r SecretRecord) []string { return []string{r.File} }

func (SecretKind) Read(fsys FS, r SecretRecord) ([]byte, error) {
	return fsys.ReadFile(r.File)
}

func (SecretKind) Write(fsys FS, r SecretRecord, secret []byte) error {
	return fsys.WriteFile(r.File, secret)
}

// KeyPair is raw private and public key material.
type KeyPair struct {
	SK []byte
	PK []byte
}

// KeyPairRecord is an entry of a key pairs index.
type KeyPairRecord struct {
	SK      string `json:"sk"`
	PK      string `json:"pk"`
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (r KeyPairRecord) RecordName() string { return r.Name }
func (r KeyPairRecord) RecordVersion() int { return r.Version }

// KeyPairKind stores a key pair as a private and a public key file.
type KeyPairKind struct{}

func (KeyPairKind) Type() string { return KindKeyPairs }

func (KeyPairKind) Record(dir, name string, version int) KeyPairRecord {
	sk, pk := KeyPairFiles(name, version)
	return KeyPairRecord{
		SK:      filepath.Join(dir, sk),
		PK:      filepath.Join(dir, pk),
		Name:    name,
		Version: version,
	}
}

func (KeyPairKind) Files(r KeyPairRecord) []string { return []string{r.SK, r.PK} }

func (KeyPairKind) Read(fsys FS, r KeyPairRecord) (KeyPair, error) {
	sk, err := fsys.ReadFile(r.SK)
	if err != nil {
		return KeyPair{}, err
	}
	pk, err := fsys.ReadFile(r.PK)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{SK: sk, PK: pk}, nil
}

func (KeyPairKind) Write(fsys FS, r KeyPairRecord, kp KeyPair) error {
	if err := fsys.WriteFile(r.SK, kp.SK); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := fsys.WriteFile(r.PK, kp.PK); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// SecretStore is a versioned store of raw secrets.
type SecretStore = Store[[]byte, SecretRecord]

// KeyPairStore is a versioned store of key pairs.
type KeyPairStore = Store[KeyPair, KeyPairRecord]

// NewSecretStore returns a store for the secret called name under dir.
func NewSecretStore(fsys FS, dir, name string, opts ...Option) (*SecretStore, error) {
	return New[[]byte, SecretRecord](fsys, dir, name, SecretKind{}, opts...)
}

// NewKeyPairStore returns a store for the key pair called name under dir.
func NewKeyPairStore(fsys FS, dir, name string, opts ...Option) (*KeyPairStore, error) {
	return New[KeyPair, KeyPairRecord](fsys, dir, name, KeyPairKind{}, opts...)
}
