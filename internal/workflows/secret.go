package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/secrets"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// SecretOptions configures GenerateSecret and RecoverSecret.
type SecretOptions struct {
	Name string

	// Version of the secret. Zero means the current version when Index is
	// set and the unversioned file otherwise.
	Version int

	// Index records the secret in <Index>.index.secrets.json when set.
	Index string

	// Mnemonic is required by RecoverSecret and ignored by GenerateSecret.
	Mnemonic string

	// Password is mixed into the mnemonic seed.
	Password string

	// Language and Strength shape the generated mnemonic.
	Language string
	Strength int
}

// SecretResult contains the outcome of generating or recovering a secret.
type SecretResult struct {
	// Mnemonic recovers the secret. Show it once; it is never stored.
	Mnemonic string

	Files store.Descriptor[store.SecretRecord]
}

// GenerateSecret creates a new mnemonic, derives a 32-byte secret from it
// and persists the secret.
//
// Returns ErrAlreadyExists if the version is already indexed or the file
// exists. Returns ErrUnsupportedLanguage for a mnemonic language without a
// wordlist.
func GenerateSecret(ctx context.Context, env Env, opts SecretOptions) (*SecretResult, error) {
	phrase, err := mnemonic.Generate(opts.Language, opts.Strength)
	if err != nil {
		return nil, fmt.Errorf("generating mnemonic: %w", err)
	}
	return persistSecret(ctx, env, opts, phrase, false)
}

// RecoverSecret re-derives a secret from its mnemonic and writes it back,
// replacing the existing file. With an index the old record is dropped
// first so the version can be re-recorded.
func RecoverSecret(ctx context.Context, env Env, opts SecretOptions) (*SecretResult, error) {
	if opts.Mnemonic == "" {
		return nil, fmt.Errorf("mnemonic is required: %w", kerrors.ErrValidation)
	}
	return persistSecret(ctx, env, opts, opts.Mnemonic, true)
}

func persistSecret(ctx context.Context, env Env, opts SecretOptions, phrase string, replace bool) (*SecretResult, error) {
	name, err := normalizeName("name", opts.Name)
	if err != nil {
		return nil, err
	}
	index, err := normalizeIndex(opts.Index)
	if err != nil {
		return nil, err
	}
	version, err := env.version(index, opts.Version)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSecretStore(env.fsys(), env.Dir, name, store.WithCurrentVersion(env.currentVersion()))
	if err != nil {
		return nil, err
	}

	seed, err := mnemonic.Seed(phrase, opts.Password)
	if err != nil {
		return nil, err
	}
	secret := secrets.GenerateSecret(seed)

	if replace && index != "" {
		if err := dropRecord(ctx, st, index, version); err != nil {
			return nil, err
		}
	}

	desc, err := st.Persist(ctx, secret, store.PersistOptions{
		Version:   version,
		IndexName: index,
		Replace:   replace,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting secret %s: %w", name, err)
	}

	op := audit.OpGenerate
	if replace {
		op = audit.OpRecover
	}
	env.audit(audit.Entry{
		Operation: op,
		Kind:      store.KindSecrets,
		Name:      name,
		Version:   version,
		Index:     index,
	})

	return &SecretResult{Mnemonic: phrase, Files: desc}, nil
}

// dropRecord removes version from index, treating an absent record as done.
func dropRecord[M any, R store.Record](ctx context.Context, st *store.Store[M, R], index string, version int) error {
	_, err := st.Remove(ctx, index, version)
	if err == nil || errors.Is(err, kerrors.ErrNotFound) || errors.Is(err, kerrors.ErrEmptyIndex) {
		return nil
	}
	return fmt.Errorf("clearing index entry: %w", err)
}

// loadSecret reads a stored secret. An unindexed versioned secret is read
// straight from its file since only indexes enumerate versions.
func loadSecret(ctx context.Context, env Env, rawName, rawIndex string, version int) ([]byte, string, int, error) {
	name, err := normalizeName("secret", rawName)
	if err != nil {
		return nil, "", 0, err
	}
	index, err := normalizeIndex(rawIndex)
	if err != nil {
		return nil, "", 0, err
	}
	version, err = env.version(index, version)
	if err != nil {
		return nil, "", 0, err
	}

	if index == "" && version > 0 {
		r := store.SecretKind{}.Record(env.Dir, name, version)
		secret, err := env.fsys().ReadFile(r.File)
		if err != nil {
			return nil, "", 0, fmt.Errorf("loading secret %s: %w", name, err)
		}
		return secret, name, version, nil
	}

	st, err := store.NewSecretStore(env.fsys(), env.Dir, name, store.WithCurrentVersion(env.currentVersion()))
	if err != nil {
		return nil, "", 0, err
	}
	if err := st.Load(ctx, index); err != nil {
		return nil, "", 0, fmt.Errorf("loading secret %s: %w", name, err)
	}
	secret, err := st.Get(version)
	if err != nil {
		return nil, "", 0, err
	}
	return secret, name, version, nil
}
