// Package store persists versioned secrets and key pairs as files.
//
// A Store manages a single logical name. Material is written to
//
//	<dir>/<name>.secret.key              unversioned secret
//	<dir>/<name>.v<version>.secret.key   versioned secret
//	<dir>/<name>[.v<version>].sk.key     private key
//	<dir>/<name>[.v<version>].pk.key     public key
//
// and versions are tracked in JSON index files named
// <index>.index.secrets.json and <index>.index.keypairs.json, each an array
// of records. Every mutation rewrites the whole index file.
//
// # Lifecycle
//
//	s, _ := store.NewSecretStore(store.OSFS{}, dir, "alice")
//	_, err := s.Persist(ctx, secret, store.PersistOptions{Version: 1, IndexName: "main"})
//	err = s.Load(ctx, "main")
//	current, err := s.Current()
//
// Load builds the in-memory snapshot and replaces it on every call. Persist
// and Remove act on disk only. (name, version) is unique within an index;
// collisions fail with errors.ErrAlreadyExists before anything is written
// or deleted.
package store
