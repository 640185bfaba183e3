package workflows

import (
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/store"
	"github.com/PolarWolf314/keysmith/internal/utils"
)

// Env is what every workflow needs from the caller's configuration.
type Env struct {
	// Dir is the key directory holding material, indexes and the audit log.
	Dir string

	// FS defaults to store.OSFS.
	FS store.FS

	// InstallationID is stamped on audit entries.
	InstallationID string

	// CurrentVersion is the version used when an indexed operation names
	// none. Zero means store.DefaultCurrentVersion.
	CurrentVersion int
}

func (e Env) fsys() store.FS {
	if e.FS == nil {
		return store.OSFS{}
	}
	return e.FS
}

func (e Env) currentVersion() int {
	if e.CurrentVersion < 1 {
		return store.DefaultCurrentVersion
	}
	return e.CurrentVersion
}

// version resolves the version an operation targets. Indexed material always
// has one; unindexed material is unversioned unless asked otherwise.
func (e Env) version(index string, version int) (int, error) {
	if version < 0 {
		return 0, fmt.Errorf("version %d must be positive: %w", version, kerrors.ErrValidation)
	}
	if version == 0 && index != "" {
		return e.currentVersion(), nil
	}
	return version, nil
}

func (e Env) audit(entry audit.Entry) {
	if entry.ID == "" {
		fresh := audit.NewEntry(entry.Operation, e.InstallationID)
		entry.ID, entry.Installation = fresh.ID, fresh.Installation
	}
	audit.Log(e.Dir, entry)
}

// normalizeName turns user input into a stored name. label names the
// argument in errors.
func normalizeName(label, raw string) (string, error) {
	name := utils.ParseFileName(raw)
	if name == "" {
		return "", fmt.Errorf("%s %q has no usable characters: %w", label, raw, kerrors.ErrValidation)
	}
	return name, nil
}

// normalizeIndex is normalizeName for an optional index name.
func normalizeIndex(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	return normalizeName("index", raw)
}
