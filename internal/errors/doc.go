// Package errors provides typed error values for the keysmith application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The core
// packages (secrets, store) only ever return these values, wrapped with
// context; they never log or exit.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Validation errors: short secrets or keys, unknown algorithms (ErrValidation)
//   - Store errors: version collisions and lookups (ErrAlreadyExists, ErrNotFound, ErrEmptyIndex)
//   - Crypto errors: envelopes that fail to open (ErrAuthentication, ErrFormat)
//   - File errors: glob resolution (ErrNoFilesFound)
//
// ErrUnsupportedAlgorithm and ErrUnsupportedLanguage are specialisations of
// ErrValidation: errors.Is matches either sentinel.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("secret is %d bytes, need at least %d: %w", n, MinSecretSize, errors.ErrValidation)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.DecryptFiles(ctx, env, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // Show user-friendly message
//	}
package errors
