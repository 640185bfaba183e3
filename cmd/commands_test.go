package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/keysmith/internal/configs"
	"github.com/PolarWolf314/keysmith/internal/keys"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestSecretsGenerateEncryptDecrypt(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "secrets", "generate", "app")
	if !strings.Contains(output, "Secret 'app'") || !strings.Contains(output, "generated") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if !strings.Contains(output, " 1. ") || !strings.Contains(output, "12. ") {
		t.Errorf("Expected a numbered 12-word mnemonic, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(p.keyDir, "app.secret.key")); err != nil {
		t.Fatalf("Expected secret file: %v", err)
	}

	plain := filepath.Join(p.work, ".env")
	writeFile(t, plain, "TOKEN=abc\n")

	output = runCLI(t, p, "secrets", "encrypt", plain, "--secret", "app")
	if !strings.Contains(output, "Files encrypted") {
		t.Errorf("Expected encrypt success, got: %s", output)
	}
	if _, err := os.Stat(plain + ".enc"); err != nil {
		t.Fatalf("Expected encrypted file: %v", err)
	}

	os.Remove(plain)
	output = runCLI(t, p, "secrets", "decrypt", plain+".enc", "--secret", "app")
	if !strings.Contains(output, "Files decrypted") {
		t.Errorf("Expected decrypt success, got: %s", output)
	}
	data, err := os.ReadFile(plain)
	if err != nil || string(data) != "TOKEN=abc\n" {
		t.Errorf("Expected original plaintext, got: %q, %v", data, err)
	}
}

func TestSecretsGenerateTwiceReportsCollision(t *testing.T) {
	p := setupTestPaths(t)

	runCLI(t, p, "secrets", "generate", "app")
	output := runCLI(t, p, "secrets", "generate", "app")
	if !strings.Contains(output, "already exists") {
		t.Errorf("Expected collision message, got: %s", output)
	}
}

func TestSecretsDecryptWithWrongSecret(t *testing.T) {
	p := setupTestPaths(t)

	runCLI(t, p, "secrets", "recover", "app", "--mnemonic", testMnemonic)
	runCLI(t, p, "secrets", "generate", "other")

	plain := filepath.Join(p.work, "notes.txt")
	writeFile(t, plain, "hello")
	runCLI(t, p, "secrets", "encrypt", plain, "--secret", "app", "--algorithm", "aes-256-ctr")
	writeFile(t, plain, "keep me")

	output := runCLI(t, p, "secrets", "decrypt", plain+".enc", "--secret", "other", "--algorithm", "aes-256-ctr")
	if !strings.Contains(output, "Failed to decrypt files") || !strings.Contains(output, "authentication failed") {
		t.Errorf("Expected authentication failure, got: %s", output)
	}
	if data, _ := os.ReadFile(plain); string(data) != "keep me" {
		t.Errorf("Expected existing plaintext untouched, got: %q", data)
	}
}

func TestSecretsIndexedVersions(t *testing.T) {
	p := setupTestPaths(t)

	runCLI(t, p, "secrets", "generate", "app", "--index", "main")
	runCLI(t, p, "secrets", "generate", "app", "--index", "main", "--version", "2")

	output := runCLI(t, p, "secrets", "list", "app", "--index", "main", "--json")
	var versions []struct {
		Version int
		Current bool
	}
	if err := json.Unmarshal([]byte(output), &versions); err != nil {
		t.Fatalf("Failed to parse list output: %v\n%s", err, output)
	}
	if len(versions) != 2 || !versions[0].Current {
		t.Errorf("Expected two versions with v1 current, got: %+v", versions)
	}

	output = runCLI(t, p, "secrets", "remove", "app", "--index", "main", "--version", "2")
	if !strings.Contains(output, "Removed 'app'") {
		t.Errorf("Expected remove message, got: %s", output)
	}
	output = runCLI(t, p, "secrets", "remove", "app", "--index", "main", "--version", "2")
	if !strings.Contains(output, "not found") {
		t.Errorf("Expected not found on second remove, got: %s", output)
	}
}

func TestKeysGenerateAndExport(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "keys", "recover", "signer", "--mnemonic", testMnemonic)
	if !strings.Contains(output, "Key pair 'signer'") || !strings.Contains(output, "Public key:") {
		t.Errorf("Expected key pair message, got: %s", output)
	}
	if strings.Contains(output, "abandon") {
		t.Error("Expected recover not to print the mnemonic")
	}

	out := filepath.Join(p.work, "export")
	runCLI(t, p, "keys", "export", "signer", "-o", out)
	pub, err := os.ReadFile(filepath.Join(out, "signer.pub.pem"))
	if err != nil {
		t.Fatalf("Expected public PEM: %v", err)
	}
	if _, err := keys.PublicFromPEM(pub); err != nil {
		t.Errorf("Expected a valid public PEM: %v", err)
	}

	output = runCLI(t, p, "keys", "export", "signer", "--public")
	if !strings.Contains(output, "BEGIN PUBLIC KEY") || strings.Contains(output, "BEGIN PRIVATE KEY") {
		t.Errorf("Expected only the public PEM, got: %s", output)
	}

	output = runCLI(t, p, "keys", "generate", "bad", "--algorithm", "rsa")
	if !strings.Contains(output, "unsupported algorithm") {
		t.Errorf("Expected unsupported algorithm message, got: %s", output)
	}
}

func TestMnemonicCommand(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "mnemonic", "--plain", "--strength", "256")
	if words := len(strings.Fields(output)); words != 24 {
		t.Errorf("Expected 24 words, got %d: %s", words, output)
	}

	output = runCLI(t, p, "mnemonic", "--language", "portuguese")
	if !strings.Contains(output, "Supported languages") {
		t.Errorf("Expected supported language hint, got: %s", output)
	}

	output = runCLI(t, p, "mnemonic", "--languages")
	if !strings.Contains(output, "english") || !strings.Contains(output, "portuguese (no wordlist)") {
		t.Errorf("Expected language list, got: %s", output)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "config", "init", "--index", "main", "--algorithm", "aes-256-ctr")
	if !strings.Contains(output, "Config created") {
		t.Errorf("Expected config created, got: %s", output)
	}

	cfg, err := configs.LoadConfig(p.config)
	if err != nil {
		t.Fatalf("Failed to load written config: %v", err)
	}
	if cfg.Store.Index != "main" || cfg.Encryption.Algorithm != "aes-256-ctr" || cfg.InstallationID == "" {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	output = runCLI(t, p, "config", "show", "--json")
	if !strings.Contains(output, `"index": "main"`) || !strings.Contains(output, cfg.InstallationID) {
		t.Errorf("Expected config in JSON output, got: %s", output)
	}

	// The configured index is used when --index is absent.
	runCLI(t, p, "secrets", "generate", "app")
	if _, err := os.Stat(filepath.Join(p.keyDir, "app.v1.secret.key")); err != nil {
		t.Errorf("Expected the default index to version the secret: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.keyDir, "main.index.secrets.json")); err != nil {
		t.Errorf("Expected the default index file: %v", err)
	}
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	p := setupTestPaths(t)
	writeFile(t, p.config, "[encryption]\nalgorithm = \"rot13\"\n")

	_, err := captureOutput(func() error {
		return createTestCLI(p, "secrets", "generate", "app").Execute()
	})
	if err == nil {
		t.Error("Expected an invalid config to fail the command")
	}

	output := runCLI(t, p, "config", "init", "--force")
	if !strings.Contains(output, "Config created") {
		t.Errorf("Expected --force to replace the config, got: %s", output)
	}
}

func TestLogCommand(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "log")
	if !strings.Contains(output, "No audit log entries found.") {
		t.Errorf("Expected empty log message, got: %s", output)
	}

	runCLI(t, p, "secrets", "generate", "app")
	runCLI(t, p, "keys", "generate", "signer")

	output = runCLI(t, p, "log", "--operation", "generate", "--name", "signer")
	if !strings.Contains(output, "signer") || strings.Contains(output, "app") {
		t.Errorf("Expected only the signer entry, got: %s", output)
	}

	output = runCLI(t, p, "log", "--since", "01/01/2024")
	if !strings.Contains(output, "YYYY-MM-DD") {
		t.Errorf("Expected date format error, got: %s", output)
	}
}

func TestDoctorCommand(t *testing.T) {
	p := setupTestPaths(t)

	exitCode := -1
	SetDoctorExitFunc(func(code int) { exitCode = code })
	t.Cleanup(func() { SetDoctorExitFunc(os.Exit) })

	runCLI(t, p, "secrets", "generate", "app")
	output := runCLI(t, p, "doctor")
	if !strings.Contains(output, "Health checks completed") || exitCode != -1 {
		t.Errorf("Expected a clean report, got exit %d: %s", exitCode, output)
	}

	if err := os.Chmod(filepath.Join(p.keyDir, "app.secret.key"), 0644); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	output = runCLI(t, p, "doctor")
	if exitCode != 1 || !strings.Contains(output, "chmod 600") {
		t.Errorf("Expected a permission warning with exit 1, got exit %d: %s", exitCode, output)
	}
}

// withStdin points os.Stdin at a file holding content for one test.
func withStdin(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	writeFile(t, path, content)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open stdin file: %v", err)
	}
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = old
		f.Close()
	})
}

func TestPasswordHashAndVerify(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bcrypt", []string{"password", "hash", "--cost", "4"}},
		{"argon2id", []string{"password", "hash", "--algorithm", "argon2id", "--memory", "1024", "--time", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupTestPaths(t)

			withStdin(t, "hunter2\n")
			hash := strings.TrimSpace(runCLI(t, p, tt.args...))
			if !strings.HasPrefix(hash, "$") {
				t.Fatalf("Expected an encoded hash, got: %q", hash)
			}

			withStdin(t, "hunter2")
			output := runCLI(t, p, "password", "verify", hash)
			if !strings.Contains(output, "Password matches") {
				t.Errorf("Expected a match, got: %s", output)
			}

			withStdin(t, "hunter3")
			output = runCLI(t, p, "password", "verify", hash)
			if !strings.Contains(output, "Password does not match") {
				t.Errorf("Expected a mismatch, got: %s", output)
			}
		})
	}
}

func TestPasswordErrors(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "password", "hash", "--algorithm", "md5")
	if !strings.Contains(output, "unsupported algorithm") {
		t.Errorf("Expected unsupported algorithm, got: %s", output)
	}

	withStdin(t, "hunter2")
	output = runCLI(t, p, "password", "verify", "$argon2id$garbage")
	if !strings.Contains(output, "Failed to verify password") {
		t.Errorf("Expected a malformed hash error, got: %s", output)
	}
}

func TestRecoverWarnsOnUnknownMnemonic(t *testing.T) {
	p := setupTestPaths(t)

	output := runCLI(t, p, "secrets", "recover", "app", "--mnemonic", "correct horse battery staple")
	if !strings.Contains(output, "fails the checksum") {
		t.Errorf("Expected a checksum warning, got: %s", output)
	}
	if !strings.Contains(output, "recovered") {
		t.Errorf("Expected the secret to be recovered anyway, got: %s", output)
	}

	output = runCLI(t, p, "secrets", "recover", "app", "--mnemonic", testMnemonic)
	if strings.Contains(output, "fails the checksum") {
		t.Errorf("Expected no warning for a valid mnemonic, got: %s", output)
	}
}
