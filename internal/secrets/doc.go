// Package secrets provides the authenticated-encryption engine for keysmith.
//
// Everything here is a pure function or an explicitly constructed stream
// value. There is no shared cipher context, and derived keys are recomputed
// on every call so that decryption can reproduce them independently.
//
// # Key Derivation
//
// A root secret (at least 32 bytes) is concatenated with zero or more
// auxiliary keys (each at least 32 bytes) and fed to HKDF-SHA256 with an
// empty salt. Each construct uses its own context string:
//
//   - AES-256-GCM: one 32-byte key
//   - AES-256-CTR: a 32-byte encryption key and a separate 32-byte MAC key
//
// Length checks run before any derivation or cipher work and fail with
// errors.ErrValidation.
//
// # Envelope Formats
//
//	AES-256-CTR: IV(16) || ciphertext || HMAC-SHA256(macKey, IV || AAD || ciphertext)(32)
//	AES-256-GCM: nonce(12) || ciphertext || tag(16)
//
// An envelope shorter than header+tag fails with errors.ErrFormat; a tag
// mismatch fails with errors.ErrAuthentication. Tags are compared in
// constant time.
//
// # Streaming
//
// NewEncrypter and NewDecrypter return Stream values that accept chunks of
// any size, including one byte at a time. The decrypter captures the header
// across chunks and always withholds the last tag-length bytes it has seen,
// since any of them may turn out to be the tag. Streamed envelopes are
// byte-compatible with the one-shot functions in both directions.
//
// Decrypters hold plaintext until the tag verifies unless
// Options.ReleaseUnverified is set. A Stream must not be shared between
// goroutines.
//
// # File Operations
//
// ResolveFiles expands paths, directories and doublestar globs into the
// files to encrypt (anything without the .enc suffix) or decrypt (.enc
// files). Key and index files are never selected.
package secrets
