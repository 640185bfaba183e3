package keys

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

const (
	privatePEMType = "PRIVATE KEY"
	publicPEMType  = "PUBLIC KEY"
)

// SecretToPEM encodes a raw Ed25519 private key as PKCS#8 PEM.
func SecretToPEM(sk []byte) (string, error) {
	priv, err := privateKey(sk)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("encoding private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: privatePEMType, Bytes: der})), nil
}

// PublicToPEM encodes a raw Ed25519 public key as PKIX PEM.
func PublicToPEM(pk []byte) (string, error) {
	pub, err := publicKey(pk)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("encoding public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicPEMType, Bytes: der})), nil
}

// SecretFromPEM returns the 32-byte seed of a PKCS#8 Ed25519 private key.
func SecretFromPEM(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != privatePEMType {
		return nil, fmt.Errorf("no %s block: %w", privatePEMType, kerrors.ErrFormat)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %v: %w", err, kerrors.ErrFormat)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, not ed25519: %w", key, kerrors.ErrValidation)
	}
	return append([]byte(nil), priv.Seed()...), nil
}

// PublicFromPEM returns the raw bytes of a PKIX Ed25519 public key.
func PublicFromPEM(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != publicPEMType {
		return nil, fmt.Errorf("no %s block: %w", publicPEMType, kerrors.ErrFormat)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %v: %w", err, kerrors.ErrFormat)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not ed25519: %w", key, kerrors.ErrValidation)
	}
	return append([]byte(nil), pub...), nil
}
