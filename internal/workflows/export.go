package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/keys"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// ExportOptions configures the export workflow.
type ExportOptions struct {
	Name    string
	Index   string
	Version int

	// OutputDir receives <name>.pem and <name>.pub.pem. When empty nothing
	// is written and the PEM text is only returned.
	OutputDir string

	// PublicOnly skips the private key.
	PublicOnly bool
}

// ExportResult contains the PEM encodings of a stored key pair.
type ExportResult struct {
	PrivatePEM string
	PublicPEM  string
	// Files lists what was written to OutputDir.
	Files []string
}

// ExportKeyPair encodes a stored Ed25519 key pair as PKCS#8 and PKIX PEM.
//
// Returns ErrNotFound if the key pair version does not exist and
// ErrAlreadyExists if an output file is already present.
func ExportKeyPair(ctx context.Context, env Env, opts ExportOptions) (*ExportResult, error) {
	kp, name, version, err := loadKeyPair(ctx, env, opts.Name, opts.Index, opts.Version)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{}
	if result.PublicPEM, err = keys.PublicToPEM(kp.PK); err != nil {
		return nil, err
	}
	if !opts.PublicOnly {
		if result.PrivatePEM, err = keys.SecretToPEM(kp.SK); err != nil {
			return nil, err
		}
	}

	if opts.OutputDir != "" {
		if result.Files, err = writePEMFiles(env.fsys(), opts.OutputDir, name, version, result, opts.PublicOnly); err != nil {
			return nil, err
		}
	}

	env.audit(audit.Entry{
		Operation: audit.OpExport,
		Kind:      store.KindKeyPairs,
		Name:      name,
		Version:   version,
		Index:     reportedIndex(opts.Index),
		Algorithm: keys.Ed25519,
		Files:     result.Files,
	})
	return result, nil
}

type pemFile struct {
	path string
	data string
}

// writePEMFiles writes the exported keys, refusing to overwrite anything.
func writePEMFiles(fsys store.FS, dir, name string, version int, result *ExportResult, publicOnly bool) ([]string, error) {
	base := name
	if version > 0 {
		base = fmt.Sprintf("%s.v%d", name, version)
	}
	outputs := []pemFile{{filepath.Join(dir, base+".pub.pem"), result.PublicPEM}}
	if !publicOnly {
		outputs = append(outputs, pemFile{filepath.Join(dir, base+".pem"), result.PrivatePEM})
	}

	for _, o := range outputs {
		exists, err := fsys.Exists(o.path)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%s: %w", o.path, kerrors.ErrAlreadyExists)
		}
	}
	if err := fsys.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var written []string
	for _, o := range outputs {
		if err := fsys.WriteFile(o.path, []byte(o.data)); err != nil {
			return written, err
		}
		written = append(written, o.path)
	}
	return written, nil
}
