package errors

import (
	"errors"
	"fmt"
)

// Validation errors indicate malformed input rejected before any work is done.
var (
	// ErrValidation indicates a secret, key or identifier failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedAlgorithm indicates an unknown algorithm identifier.
	// It wraps ErrValidation so both sentinels match.
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported algorithm", ErrValidation)

	// ErrUnsupportedLanguage indicates a mnemonic wordlist that is not available.
	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported mnemonic language", ErrValidation)
)

// Store errors indicate issues with versioned key material on disk.
var (
	// ErrAlreadyExists indicates a version or file collision without replace.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates a missing version, name or file.
	ErrNotFound = errors.New("not found")

	// ErrEmptyIndex indicates a removal was attempted on an index with no records.
	ErrEmptyIndex = errors.New("index is empty")
)

// Cryptographic errors indicate an envelope that cannot be opened.
var (
	// ErrAuthentication indicates tag verification failed.
	ErrAuthentication = errors.New("authentication failed")

	// ErrFormat indicates an envelope or stream that is too short or truncated.
	ErrFormat = errors.New("malformed envelope")
)

// File errors indicate issues with file discovery.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")
)
