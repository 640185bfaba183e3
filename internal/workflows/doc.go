// Package workflows provides high-level orchestration for keysmith commands.
//
// Workflows coordinate multiple operations across packages (mnemonic, keys,
// secrets, store, audit) to implement complete user-facing features. Each
// workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Builds an Env from the loaded configuration
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else: normalizing names, resolving versions,
// reading and writing the key directory, and recording audit entries.
//
// # Available Workflows
//
//   - GenerateSecret, RecoverSecret: mnemonic-backed 32-byte secrets
//   - GenerateKeyPair, RecoverKeyPair, ExportKeyPair: Ed25519 key pairs
//   - EncryptFiles, DecryptFiles: stream files through the envelope engine
//   - ListVersions, RemoveVersion: manage indexed versions
//   - Status: compare plaintext files with their encrypted copies
//   - ReadLog: filter the audit log
//   - Doctor: health checks on the config and key directory
//
// # Versions and Indexes
//
// Material lives in Env.Dir. Without an index a name refers to its
// unversioned file, or to <name>.v<N> when a version is given. With an index
// the name and version are looked up in <index>.index.<kind>.json, and a
// zero version means Env.CurrentVersion.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.DecryptFiles(ctx, env, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // Wrong secret or tampered file
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancellation is checked between files and between streamed chunks.
package workflows
