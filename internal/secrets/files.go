package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

// EncryptedSuffix is appended to a file name when it is encrypted.
const EncryptedSuffix = ".enc"

// ResolveFiles takes user-provided paths/globs and returns matching files.
// If patterns is empty, returns nil (caller should use default behavior).
// forEncryption=true finds plaintext files, forEncryption=false finds *.enc files.
// Key material and index files are never returned.
func ResolveFiles(patterns []string, baseDir string, forEncryption bool) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir, forEncryption)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	return files, nil
}

func resolvePattern(pattern string, baseDir string, forEncryption bool) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, forEncryption)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(absPattern, forEncryption)
	}

	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", pattern, kerrors.ErrNotFound)
	}

	if !wanted(absPattern, forEncryption) {
		if forEncryption {
			return nil, fmt.Errorf("file cannot be encrypted: %s", pattern)
		}
		return nil, fmt.Errorf("file is not a %s file: %s", EncryptedSuffix, pattern)
	}

	return []string{absPattern}, nil
}

func expandGlob(absPattern string, forEncryption bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", absPattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if wanted(m, forEncryption) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

func findFilesInDir(dir string, forEncryption bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if wanted(path, forEncryption) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func wanted(path string, forEncryption bool) bool {
	if isKeyMaterial(path) {
		return false
	}
	if forEncryption {
		return !IsEncryptedFile(path)
	}
	return IsEncryptedFile(path)
}

// IsEncryptedFile reports whether path carries the encrypted suffix.
func IsEncryptedFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), EncryptedSuffix)
}

// PlaintextPath strips the encrypted suffix from path.
func PlaintextPath(path string) string {
	return strings.TrimSuffix(path, EncryptedSuffix)
}

func isKeyMaterial(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".key") {
		return true
	}
	return strings.Contains(base, ".index.") && strings.HasSuffix(base, ".json")
}
