package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/secrets"
)

// FileStatus represents the encryption status of a file.
type FileStatus string

const (
	// StatusCurrent means the encrypted file is newer than the plaintext.
	StatusCurrent FileStatus = "current"
	// StatusStale means the plaintext was modified after encryption.
	StatusStale FileStatus = "stale"
	// StatusUnencrypted means plaintext exists with no encrypted version.
	StatusUnencrypted FileStatus = "unencrypted"
	// StatusEncryptedOnly means encrypted exists with no plaintext.
	StatusEncryptedOnly FileStatus = "encrypted_only"
)

// FileStatusInfo holds information about a file's encryption status.
type FileStatusInfo struct {
	// Path is relative to the base directory when possible.
	Path string

	Status FileStatus

	// PlaintextMtime and EncryptedMtime are RFC 3339, empty when absent.
	PlaintextMtime string
	EncryptedMtime string
}

// StatusSummary holds counts of files by status.
type StatusSummary struct {
	Current       int
	Stale         int
	Unencrypted   int
	EncryptedOnly int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Patterns are paths, directories or doublestar globs.
	Patterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	Files   []FileStatusInfo
	Summary StatusSummary
}

// Status compares each matched file with its .enc counterpart:
//   - current: encrypted file is newer than plaintext
//   - stale: plaintext modified after encryption
//   - unencrypted: plaintext exists with no encrypted version
//   - encrypted_only: encrypted exists with no plaintext
//
// Returns ErrNoFilesFound if nothing matches.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	if len(opts.Patterns) == 0 {
		return nil, fmt.Errorf("no files given: %w", kerrors.ErrValidation)
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}

	plain, plainErr := secrets.ResolveFiles(opts.Patterns, baseDir, true)
	encrypted, encErr := secrets.ResolveFiles(opts.Patterns, baseDir, false)
	if plainErr != nil && encErr != nil {
		return nil, plainErr
	}

	// Build a set of all base paths (without the encrypted suffix).
	basePaths := make(map[string]bool)
	for _, f := range plain {
		basePaths[f] = true
	}
	for _, f := range encrypted {
		basePaths[secrets.PlaintextPath(f)] = true
	}

	var files []FileStatusInfo
	for basePath := range basePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		status, plainMtime, encMtime := determineFileStatus(basePath)

		relPath, err := filepath.Rel(baseDir, basePath)
		if err != nil {
			relPath = basePath
		}

		files = append(files, FileStatusInfo{
			Path:           relPath,
			Status:         status,
			PlaintextMtime: plainMtime,
			EncryptedMtime: encMtime,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return &StatusResult{
		Files:   files,
		Summary: calculateStatusSummary(files),
	}, nil
}

func determineFileStatus(basePath string) (FileStatus, string, string) {
	plainInfo, plainErr := os.Stat(basePath)
	encInfo, encErr := os.Stat(basePath + secrets.EncryptedSuffix)

	plainExists := plainErr == nil
	encExists := encErr == nil

	var plainMtime, encMtime string
	if plainExists {
		plainMtime = plainInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}
	if encExists {
		encMtime = encInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}

	switch {
	case plainExists && encExists:
		if encInfo.ModTime().Before(plainInfo.ModTime()) {
			return StatusStale, plainMtime, encMtime
		}
		return StatusCurrent, plainMtime, encMtime
	case encExists:
		return StatusEncryptedOnly, "", encMtime
	default:
		return StatusUnencrypted, plainMtime, ""
	}
}

func calculateStatusSummary(files []FileStatusInfo) StatusSummary {
	var summary StatusSummary
	for _, file := range files {
		switch file.Status {
		case StatusCurrent:
			summary.Current++
		case StatusStale:
			summary.Stale++
		case StatusUnencrypted:
			summary.Unencrypted++
		case StatusEncryptedOnly:
			summary.EncryptedOnly++
		}
	}
	return summary
}
