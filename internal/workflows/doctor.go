package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PolarWolf314/keysmith/internal/configs"
	"github.com/PolarWolf314/keysmith/internal/store"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// ConfigPath is the config file to validate. Empty skips the check.
	ConfigPath string
}

// Doctor runs health checks on the config file and key directory:
//   - the config parses and validates
//   - the key directory exists and is private
//   - key files are readable by the owner only
//   - every index parses
//   - every indexed file exists
//   - no versioned file is missing from all indexes
func Doctor(ctx context.Context, env Env, opts DoctorOptions) (*DoctorResult, error) {
	scan, err := scanKeyDir(env)
	if err != nil {
		return nil, err
	}

	checks := []func() CheckResult{
		func() CheckResult { return checkConfig(opts.ConfigPath) },
		func() CheckResult { return checkKeyDir(env.Dir) },
		scan.checkKeyPermissions,
		scan.checkIndexesParse,
		scan.checkIndexedFiles,
		scan.checkUnindexedFiles,
	}

	var results []CheckResult
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, check())
	}

	summary := calculateDoctorSummary(results)

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

func checkConfig(path string) CheckResult {
	const name = "Configuration"
	if path == "" {
		return CheckResult{Name: name, Status: CheckPass, Message: "No config file in use"}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return CheckResult{
			Name:       name,
			Status:     CheckPass,
			Message:    "No config file, using defaults",
			Suggestion: "Run 'keysmith config init' to write one",
		}
	}
	if _, err := configs.LoadConfig(path); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Config is invalid: %v", err),
			Suggestion: fmt.Sprintf("Fix or remove %s", path),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Config is valid"}
}

func checkKeyDir(dir string) CheckResult {
	const name = "Key directory"
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s does not exist yet", dir),
			Suggestion: "Run 'keysmith secrets generate <name>' to create it",
		}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Failed to stat key directory: %v", err)}
	}
	if !info.IsDir() {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("%s is not a directory", dir)}
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Key directory is accessible to others (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 700 %s' to fix permissions", dir),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Key directory is private"}
}

// keyDirScan is one pass over the key directory shared by the file checks.
type keyDirScan struct {
	dir       string
	fsys      store.FS
	keyFiles  []string
	indexes   []string
	indexErrs map[string]error
	indexed   map[string]bool
	missing   []string
}

func scanKeyDir(env Env) (*keyDirScan, error) {
	scan := &keyDirScan{
		dir:       env.Dir,
		fsys:      env.fsys(),
		indexErrs: map[string]error{},
		indexed:   map[string]bool{},
	}

	entries, err := os.ReadDir(env.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return scan, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", env.Dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(env.Dir, e.Name())
		if strings.HasSuffix(e.Name(), ".key") {
			scan.keyFiles = append(scan.keyFiles, path)
			continue
		}
		_, kind, ok := store.ParseIndexFile(e.Name())
		if !ok {
			continue
		}
		scan.indexes = append(scan.indexes, path)

		var files []string
		switch kind {
		case store.KindSecrets:
			records, err := store.ReadIndex[store.SecretRecord](scan.fsys, path)
			if err != nil {
				scan.indexErrs[path] = err
				continue
			}
			for _, r := range records {
				files = append(files, store.SecretKind{}.Files(r)...)
			}
		case store.KindKeyPairs:
			records, err := store.ReadIndex[store.KeyPairRecord](scan.fsys, path)
			if err != nil {
				scan.indexErrs[path] = err
				continue
			}
			for _, r := range records {
				files = append(files, store.KeyPairKind{}.Files(r)...)
			}
		}
		for _, f := range files {
			scan.indexed[filepath.Clean(f)] = true
			ok, err := scan.fsys.Exists(f)
			if err != nil || !ok {
				scan.missing = append(scan.missing, f)
			}
		}
	}
	sort.Strings(scan.missing)
	return scan, nil
}

func (s *keyDirScan) checkKeyPermissions() CheckResult {
	const name = "Key file permissions"
	var loose []string
	for _, f := range s.keyFiles {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0077 != 0 {
			loose = append(loose, filepath.Base(f))
		}
	}
	if len(loose) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%d key files are accessible to others: %s", len(loose), strings.Join(loose, ", ")),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", filepath.Join(s.dir, "*.key")),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d key files have correct permissions", len(s.keyFiles))}
}

func (s *keyDirScan) checkIndexesParse() CheckResult {
	const name = "Index files"
	if len(s.indexErrs) > 0 {
		var bad []string
		for path := range s.indexErrs {
			bad = append(bad, filepath.Base(path))
		}
		sort.Strings(bad)
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot parse: %s", strings.Join(bad, ", ")),
			Suggestion: "Restore the index from backup or recover each version from its mnemonic",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d indexes parse", len(s.indexes))}
}

func (s *keyDirScan) checkIndexedFiles() CheckResult {
	const name = "Indexed files"
	if len(s.missing) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("%d indexed files are missing: %s", len(s.missing), strings.Join(s.missing, ", ")),
			Suggestion: "Run 'keysmith secrets recover' or 'keysmith keys recover' for the affected versions",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Every indexed file exists"}
}

func (s *keyDirScan) checkUnindexedFiles() CheckResult {
	const name = "Unindexed versions"
	var orphans []string
	for _, f := range s.keyFiles {
		base := filepath.Base(f)
		if !versionedKeyFile(base) || s.indexed[filepath.Clean(f)] {
			continue
		}
		orphans = append(orphans, base)
	}
	if len(orphans) > 0 {
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: fmt.Sprintf("%d versioned files are in no index: %s", len(orphans), strings.Join(orphans, ", ")),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Every versioned file is indexed"}
}

// versionedKeyFile reports whether base looks like <name>.v<N>.<kind>.key.
func versionedKeyFile(base string) bool {
	parts := strings.Split(base, ".")
	if len(parts) < 4 {
		return false
	}
	v := parts[len(parts)-3]
	if len(v) < 2 || v[0] != 'v' {
		return false
	}
	for _, c := range v[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
