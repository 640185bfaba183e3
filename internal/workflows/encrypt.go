package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/audit"
	"github.com/PolarWolf314/keysmith/internal/secrets"
)

// EncryptFiles encrypts every resolved file with a stored secret, writing
// <file>.enc next to each source.
//
// Returns ErrNoFilesFound if no patterns match, ErrNotFound if the secret
// version does not exist, and ErrValidation for a short secret or key file.
func EncryptFiles(ctx context.Context, env Env, opts FileOptions) (*FileResult, error) {
	job, err := prepareFiles(ctx, env, opts, true)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return job.result(true), nil
	}

	for i, src := range job.files {
		enc, err := secrets.NewEncrypter(job.alg, job.secret, job.engine)
		if err != nil {
			return nil, err
		}
		if err := streamFile(ctx, enc, src, job.outputs[i], job.chunkSize, 0644); err != nil {
			return nil, fmt.Errorf("encrypting: %w", err)
		}
	}

	env.audit(audit.Entry{
		Operation: audit.OpEncrypt,
		Name:      job.name,
		Version:   job.version,
		Index:     job.index,
		Algorithm: string(job.alg),
		Files:     job.outputs,
	})
	return job.result(false), nil
}
