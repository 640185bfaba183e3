package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/keys"
	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// KeyPairOptions configures GenerateKeyPair and RecoverKeyPair. Fields mean
// the same as in SecretOptions.
type KeyPairOptions struct {
	Name      string
	Algorithm string
	Version   int
	Index     string
	Mnemonic  string
	Password  string
	Language  string
	Strength  int
}

// KeyPairResult contains the outcome of generating or recovering a key pair.
type KeyPairResult struct {
	Mnemonic  string
	PublicKey []byte
	Files     store.Descriptor[store.KeyPairRecord]
}

// GenerateKeyPair creates a new mnemonic and persists the Ed25519 key pair
// derived from it.
func GenerateKeyPair(ctx context.Context, env Env, opts KeyPairOptions) (*KeyPairResult, error) {
	if err := checkKeyAlgorithm(opts.Algorithm); err != nil {
		return nil, err
	}
	phrase, err := mnemonic.Generate(opts.Language, opts.Strength)
	if err != nil {
		return nil, fmt.Errorf("generating mnemonic: %w", err)
	}
	return persistKeyPair(ctx, env, opts, phrase, false)
}

// RecoverKeyPair re-derives a key pair from its mnemonic and writes it back
// with the same index handling as RecoverSecret.
func RecoverKeyPair(ctx context.Context, env Env, opts KeyPairOptions) (*KeyPairResult, error) {
	if err := checkKeyAlgorithm(opts.Algorithm); err != nil {
		return nil, err
	}
	if opts.Mnemonic == "" {
		return nil, fmt.Errorf("mnemonic is required: %w", kerrors.ErrValidation)
	}
	return persistKeyPair(ctx, env, opts, opts.Mnemonic, true)
}

func checkKeyAlgorithm(alg string) error {
	if alg == "" || SupportsKeyAlgorithm(alg) {
		return nil
	}
	return fmt.Errorf("%q: %w", alg, kerrors.ErrUnsupportedAlgorithm)
}

func persistKeyPair(ctx context.Context, env Env, opts KeyPairOptions, phrase string, replace bool) (*KeyPairResult, error) {
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

	st, err := store.NewKeyPairStore(env.fsys(), env.Dir, name, store.WithCurrentVersion(env.currentVersion()))
	if err != nil {
		return nil, err
	}

	seed, err := mnemonic.Seed(phrase, opts.Password)
	if err != nil {
		return nil, err
	}
	kp, err := keys.GenerateKeyPair(seed)
	if err != nil {
		return nil, err
	}

	if replace && index != "" {
		if err := dropRecord(ctx, st, index, version); err != nil {
			return nil, err
		}
	}

	desc, err := st.Persist(ctx, kp, store.PersistOptions{
		Version:   version,
		IndexName: index,
		Replace:   replace,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting key pair %s: %w", name, err)
	}

	op := audit.OpGenerate
	if replace {
		op = audit.OpRecover
	}
	env.audit(audit.Entry{
		Operation: op,
		Kind:      store.KindKeyPairs,
		Name:      name,
		Version:   version,
		Index:     index,
		Algorithm: keys.Ed25519,
	})

	return &KeyPairResult{Mnemonic: phrase, PublicKey: kp.PK, Files: desc}, nil
}

// loadKeyPair mirrors loadSecret for key pairs.
func loadKeyPair(ctx context.Context, env Env, rawName, rawIndex string, version int) (store.KeyPair, string, int, error) {
	var zero store.KeyPair
	name, err := normalizeName("name", rawName)
	if err != nil {
		return zero, "", 0, err
	}
	index, err := normalizeIndex(rawIndex)
	if err != nil {
		return zero, "", 0, err
	}
	version, err = env.version(index, version)
	if err != nil {
		return zero, "", 0, err
	}

	if index == "" && version > 0 {
		kp, err := store.KeyPairKind{}.Read(env.fsys(), store.KeyPairKind{}.Record(env.Dir, name, version))
		if err != nil {
			return zero, "", 0, fmt.Errorf("loading key pair %s: %w", name, err)
		}
		return kp, name, version, nil
	}

	st, err := store.NewKeyPairStore(env.fsys(), env.Dir, name, store.WithCurrentVersion(env.currentVersion()))
	if err != nil {
		return zero, "", 0, err
	}
	if err := st.Load(ctx, index); err != nil {
		return zero, "", 0, fmt.Errorf("loading key pair %s: %w", name, err)
	}
	kp, err := st.Get(version)
	if err != nil {
		return zero, "", 0, err
	}
	return kp, name, version, nil
}
