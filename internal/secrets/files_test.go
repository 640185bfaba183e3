package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// writeTestFile is a helper to write test files with 0644 permissions.
// #nosec G306 -- Test files are temporary and don't contain sensitive data.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { // #nosec G306
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestResolveFiles_EmptyPatterns(t *testing.T) {
	files, err := ResolveFiles([]string{}, t.TempDir(), true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if files != nil {
		t.Errorf("Expected nil, got: %v", files)
	}
}

func TestResolveFiles_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "notes.txt")
	writeTestFile(t, file, "hello")

	files, err := ResolveFiles([]string{"notes.txt"}, tmpDir, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Fatalf("Expected [%s], got: %v", file, files)
	}
}

func TestResolveFiles_DirectorySkipsHiddenAndKeys(t *testing.T) {
	tmpDir := t.TempDir()
	keep := filepath.Join(tmpDir, "docs", "a.txt")
	writeTestFile(t, keep, "a")
	writeTestFile(t, filepath.Join(tmpDir, "docs", ".git", "HEAD"), "ref")
	writeTestFile(t, filepath.Join(tmpDir, "docs", "alice.v1.secret.key"), "k")
	writeTestFile(t, filepath.Join(tmpDir, "docs", "main.index.secrets.json"), "[]")
	writeTestFile(t, filepath.Join(tmpDir, "docs", "b.txt.enc"), "x")

	files, err := ResolveFiles([]string{"docs"}, tmpDir, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(files) != 1 || files[0] != keep {
		t.Fatalf("Expected only %s, got: %v", keep, files)
	}
}

func TestResolveFiles_DoubleStarGlob(t *testing.T) {
	tmpDir := t.TempDir()
	paths := []string{
		filepath.Join(tmpDir, "config.yaml"),
		filepath.Join(tmpDir, "services", "api", "config.yaml"),
		filepath.Join(tmpDir, "services", "api", "deep", "config.yaml"),
	}
	for _, p := range paths {
		writeTestFile(t, p, "k: v")
	}
	writeTestFile(t, filepath.Join(tmpDir, "services", "api", "config.yaml.enc"), "x")

	files, err := ResolveFiles([]string{"**/config.yaml"}, tmpDir, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got: %d", len(files))
	}

	encrypted, err := ResolveFiles([]string{"**/*"}, tmpDir, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(encrypted) != 1 {
		t.Fatalf("Expected 1 encrypted file, got: %v", encrypted)
	}
}

func TestResolveFiles_NonExistentFile(t *testing.T) {
	_, err := ResolveFiles([]string{"missing.txt"}, t.TempDir(), true)
	if !errors.Is(err, kerrors.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}
}

func TestResolveFiles_NoMatches(t *testing.T) {
	_, err := ResolveFiles([]string{"*.nothing"}, t.TempDir(), true)
	if !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Fatalf("Expected ErrNoFilesFound, got: %v", err)
	}
}

func TestResolveFiles_Deduplication(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a.txt"), "a")

	files, err := ResolveFiles([]string{"a.txt", "*.txt", "a.txt"}, tmpDir, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 file (deduplicated), got: %d", len(files))
	}
}

func TestResolveFiles_WrongFileType(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a.txt.enc"), "x")
	writeTestFile(t, filepath.Join(tmpDir, "a.txt"), "x")

	if _, err := ResolveFiles([]string{"a.txt.enc"}, tmpDir, true); err == nil {
		t.Error("Expected error when encrypting an already encrypted file")
	}
	if _, err := ResolveFiles([]string{"a.txt"}, tmpDir, false); err == nil {
		t.Error("Expected error when decrypting a plaintext file")
	}
}

func TestIsEncryptedFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.enc", true},
		{"path/to/.env.enc", true},
		{".env", false},
		{"enc", false},
		{"a.enc.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsEncryptedFile(tt.path); got != tt.expected {
				t.Errorf("IsEncryptedFile(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}

	if got := PlaintextPath("dir/a.txt.enc"); got != "dir/a.txt" {
		t.Errorf("PlaintextPath() = %q, want %q", got, "dir/a.txt")
	}
}

func TestIsKeyMaterial(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"alice.secret.key", true},
		{"alice.v2.sk.key", true},
		{"main.index.keypairs.json", true},
		{"package.json", false},
		{"notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isKeyMaterial(tt.path); got != tt.expected {
				t.Errorf("isKeyMaterial(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}
