// Package audit records key lifecycle operations in a JSON Lines log.
//
// The log lives next to the key material:
//
//	<keys dir>/audit.jsonl
//
// Each entry carries a UUID, a UTC timestamp, the installation id from the
// config, the operation and the name/version/index it touched. Secret bytes,
// mnemonics and passwords are never written.
//
// # Usage
//
//	entry := audit.NewEntry(audit.OpGenerate, cfg.InstallationID)
//	entry.Name, entry.Version = "deploy", 2
//	audit.Log(keysDir, entry)
//
// Logging is best-effort: failures are dropped so an operation never fails
// because of its audit trail. ReadEntries skips malformed lines left by a
// partial write.
package audit
