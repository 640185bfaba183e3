// Package keys wraps crypto/ed25519 for seed-derived signing key pairs and
// their PEM export. Raw key material is the form stored on disk: a 32-byte
// private seed and a 32-byte public key.
package keys
