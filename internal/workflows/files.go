package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/secrets"
	"github.com/PolarWolf314/keysmith/internal/utils"
)

// FileOptions is shared by EncryptFiles and DecryptFiles.
type FileOptions struct {
	// Patterns are paths, directories or doublestar globs.
	Patterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string

	// Secret names the stored secret; Index and Version select it.
	Secret  string
	Index   string
	Version int

	// Algorithm is an identifier accepted by secrets.ParseAlgorithm.
	Algorithm string

	// AAD is bound to every file.
	AAD []byte

	// KeyFiles are read and mixed into the derivation as auxiliary keys.
	// Relative paths resolve against BaseDir.
	KeyFiles []string

	// ChunkSize is the streaming read size. Zero means the default.
	ChunkSize int

	DryRun bool
}

// FileResult pairs each input with the file written for it.
type FileResult struct {
	SourceFiles []string
	OutputFiles []string
	Algorithm   secrets.Algorithm
	Secret      string
	Version     int
	DryRun      bool
}

type fileJob struct {
	alg       secrets.Algorithm
	secret    []byte
	name      string
	index     string
	version   int
	files     []string
	outputs   []string
	engine    secrets.Options
	chunkSize int
}

func prepareFiles(ctx context.Context, env Env, opts FileOptions, forEncryption bool) (*fileJob, error) {
	alg, err := secrets.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}
	if len(opts.Patterns) == 0 {
		return nil, fmt.Errorf("no files given: %w", kerrors.ErrValidation)
	}
	files, err := secrets.ResolveFiles(opts.Patterns, baseDir, forEncryption)
	if err != nil {
		return nil, fmt.Errorf("resolving file patterns: %w", err)
	}

	secret, name, version, err := loadSecret(ctx, env, opts.Secret, opts.Index, opts.Version)
	if err != nil {
		return nil, err
	}

	auxKeys := make([][]byte, 0, len(opts.KeyFiles))
	for _, kf := range opts.KeyFiles {
		key, err := os.ReadFile(utils.ParseAbspath(baseDir, kf))
		if err != nil {
			return nil, fmt.Errorf("reading key file %s: %w", kf, err)
		}
		auxKeys = append(auxKeys, key)
	}

	engine := secrets.Options{Keys: auxKeys, AAD: opts.AAD}
	if err := secrets.ValidateSecret(secret, auxKeys...); err != nil {
		return nil, err
	}

	job := &fileJob{
		alg:       alg,
		secret:    secret,
		name:      name,
		index:     reportedIndex(opts.Index),
		version:   version,
		files:     files,
		engine:    engine,
		chunkSize: opts.ChunkSize,
	}
	for _, f := range files {
		if forEncryption {
			job.outputs = append(job.outputs, f+secrets.EncryptedSuffix)
		} else {
			job.outputs = append(job.outputs, secrets.PlaintextPath(f))
		}
	}
	return job, nil
}

func (j *fileJob) result(dryRun bool) *FileResult {
	return &FileResult{
		SourceFiles: j.files,
		OutputFiles: j.outputs,
		Algorithm:   j.alg,
		Secret:      j.name,
		Version:     j.version,
		DryRun:      dryRun,
	}
}

// streamFile runs one file through a fresh stream into a temporary file
// next to dst, then renames it into place. On failure dst is untouched.
func streamFile(ctx context.Context, s secrets.Stream, src, dst string, chunkSize int, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".keysmith-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := secrets.Pipe(ctx, s, tmp, in, chunkSize); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("renaming into %s: %w", dst, err)
	}
	committed = true
	return nil
}

// streamInPlace writes released output straight into dst. A failure removes
// the partial file.
func streamInPlace(ctx context.Context, s secrets.Stream, src, dst string, chunkSize int, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	_, err = secrets.Pipe(ctx, s, out, in, chunkSize)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("%s: %w", src, err)
	}
	return nil
}

// reportedIndex is the normalized index name for reporting. Invalid names never
// get this far because loadSecret rejects them.
func reportedIndex(raw string) string {
	index, _ := normalizeIndex(raw)
	return index
}
