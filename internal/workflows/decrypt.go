package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	"github.com/PolarWolf314/keysmith/internal/secrets"
)

// DecryptOptions adds the release policy to FileOptions.
type DecryptOptions struct {
	FileOptions

	// ReleaseUnverified writes plaintext as it is decrypted instead of after
	// the tag checks. A failed file is deleted, but its bytes may already
	// have been read by another process.
	ReleaseUnverified bool
}

// DecryptFiles decrypts every resolved .enc file with a stored secret,
// writing the plaintext beside it without the suffix. Files are processed in
// order and the first failure stops the run; earlier files stay decrypted.
//
// Returns ErrAuthentication for a tampered file or wrong secret and
// ErrFormat for a truncated one.
func DecryptFiles(ctx context.Context, env Env, opts DecryptOptions) (*FileResult, error) {
	job, err := prepareFiles(ctx, env, opts.FileOptions, false)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return job.result(true), nil
	}

	engine := job.engine
	engine.ReleaseUnverified = opts.ReleaseUnverified

	for i, src := range job.files {
		dec, err := secrets.NewDecrypter(job.alg, job.secret, engine)
		if err != nil {
			return nil, err
		}
		write := streamFile
		if opts.ReleaseUnverified {
			write = streamInPlace
		}
		if err := write(ctx, dec, src, job.outputs[i], job.chunkSize, 0600); err != nil {
			return nil, fmt.Errorf("decrypting: %w", err)
		}
	}

	env.audit(audit.Entry{
		Operation: audit.OpDecrypt,
		Name:      job.name,
		Version:   job.version,
		Index:     job.index,
		Algorithm: string(job.alg),
		Files:     job.files,
	})
	return job.result(false), nil
}
