package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan

	return first + second, err
}

// testPaths holds the per-test key directory and config file.
type testPaths struct {
	keyDir string
	config string
	work   string
}

func setupTestPaths(t *testing.T) testPaths {
	t.Helper()
	root := t.TempDir()
	color.NoColor = true
	t.Cleanup(ResetGlobalState)
	return testPaths{
		keyDir: filepath.Join(root, "keys"),
		config: filepath.Join(root, "config", "config.toml"),
		work:   filepath.Join(root, "work"),
	}
}

// createTestCLI creates a fresh root command with every keysmith command
// attached and the global flags pointed at p.
func createTestCLI(p testPaths, args ...string) *cobra.Command {
	ResetGlobalState()

	rootCmd := &cobra.Command{
		Use:           "keysmith",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddGlobalFlags(rootCmd)
	AddCommands(rootCmd)

	rootCmd.SetArgs(append(args, "--dir", p.keyDir, "--config", p.config))
	return rootCmd
}

// runCLI executes args and returns the combined output.
func runCLI(t *testing.T, p testPaths, args ...string) string {
	t.Helper()
	output, err := captureOutput(func() error {
		return createTestCLI(p, args...).Execute()
	})
	if err != nil {
		t.Fatalf("Command %v failed: %v\nOutput: %s", args, err, output)
	}
	return output
}
