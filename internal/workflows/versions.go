package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// VersionInfo describes one indexed version.
type VersionInfo struct {
	Version int
	Files   []string
	// Missing lists referenced files that are not on disk.
	Missing []string
	Current bool
}

// ListVersions returns the versions of name recorded in index, ascending.
// kind is store.KindSecrets or store.KindKeyPairs. A missing index lists
// nothing.
func ListVersions(ctx context.Context, env Env, kind, rawName, rawIndex string) ([]VersionInfo, error) {
	name, index, err := namesForIndex(rawName, rawIndex)
	if err != nil {
		return nil, err
	}

	var files [][]string
	var versions []int
	switch kind {
	case store.KindSecrets:
		st, err := store.NewSecretStore(env.fsys(), env.Dir, name)
		if err != nil {
			return nil, err
		}
		records, err := st.Records(ctx, index)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			versions = append(versions, r.Version)
			files = append(files, store.SecretKind{}.Files(r))
		}
	case store.KindKeyPairs:
		st, err := store.NewKeyPairStore(env.fsys(), env.Dir, name)
		if err != nil {
			return nil, err
		}
		records, err := st.Records(ctx, index)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			versions = append(versions, r.Version)
			files = append(files, store.KeyPairKind{}.Files(r))
		}
	default:
		return nil, fmt.Errorf("kind %q: %w", kind, kerrors.ErrValidation)
	}

	infos := make([]VersionInfo, 0, len(versions))
	for i, v := range versions {
		info := VersionInfo{Version: v, Files: files[i], Current: v == env.currentVersion()}
		for _, f := range files[i] {
			ok, err := env.fsys().Exists(f)
			if err != nil {
				return nil, fmt.Errorf("checking %s: %w", f, err)
			}
			if !ok {
				info.Missing = append(info.Missing, f)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// RemoveOptions configures RemoveVersion.
type RemoveOptions struct {
	Kind    string
	Name    string
	Index   string
	Version int

	// DeleteFiles also removes the version's material files. By default
	// they stay on disk and can be re-indexed by a recover.
	DeleteFiles bool
}

// RemoveResult reports what RemoveVersion dropped.
type RemoveResult struct {
	Name         string
	Version      int
	Index        string
	Files        []string
	DeletedFiles bool
}

// RemoveVersion drops a version from an index.
//
// Returns ErrEmptyIndex if the index has no records and ErrNotFound if the
// version is not recorded.
func RemoveVersion(ctx context.Context, env Env, opts RemoveOptions) (*RemoveResult, error) {
	name, index, err := namesForIndex(opts.Name, opts.Index)
	if err != nil {
		return nil, err
	}
	if opts.Version < 1 {
		return nil, fmt.Errorf("version %d must be positive: %w", opts.Version, kerrors.ErrValidation)
	}

	var files []string
	switch opts.Kind {
	case store.KindSecrets:
		st, err := store.NewSecretStore(env.fsys(), env.Dir, name)
		if err != nil {
			return nil, err
		}
		r, err := st.Remove(ctx, index, opts.Version)
		if err != nil {
			return nil, err
		}
		files = store.SecretKind{}.Files(r)
	case store.KindKeyPairs:
		st, err := store.NewKeyPairStore(env.fsys(), env.Dir, name)
		if err != nil {
			return nil, err
		}
		r, err := st.Remove(ctx, index, opts.Version)
		if err != nil {
			return nil, err
		}
		files = store.KeyPairKind{}.Files(r)
	default:
		return nil, fmt.Errorf("kind %q: %w", opts.Kind, kerrors.ErrValidation)
	}

	if opts.DeleteFiles {
		for _, f := range files {
			if err := env.fsys().Remove(f); err != nil {
				return nil, fmt.Errorf("removing %s: %w", f, err)
			}
		}
	}

	env.audit(audit.Entry{
		Operation: audit.OpRemove,
		Kind:      opts.Kind,
		Name:      name,
		Version:   opts.Version,
		Index:     index,
		Files:     files,
	})

	return &RemoveResult{
		Name:         name,
		Version:      opts.Version,
		Index:        index,
		Files:        files,
		DeletedFiles: opts.DeleteFiles,
	}, nil
}

func namesForIndex(rawName, rawIndex string) (string, string, error) {
	name, err := normalizeName("name", rawName)
	if err != nil {
		return "", "", err
	}
	if rawIndex == "" {
		return "", "", fmt.Errorf("an index is required: %w", kerrors.ErrValidation)
	}
	index, err := normalizeIndex(rawIndex)
	if err != nil {
		return "", "", err
	}
	return name, index, nil
}
