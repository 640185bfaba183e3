package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	color.NoColor = false

	result := Code.Sprint("keysmith secrets generate")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	tests := []struct {
		name      string
		formatter Formatter
		input     interface{}
		want      string
	}{
		{"Code adds backticks", Code, "keysmith secrets generate", "`keysmith secrets generate`"},
		{"Path has no decoration", Path, "deploy.secret.key", "deploy.secret.key"},
		{"Flag has no decoration", Flag, "--index", "--index"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "⚠", "⚠"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "deploy", "'deploy'"},
		{"Muted adds parentheses", Muted, "unversioned", "(unversioned)"},
		{"Version adds v prefix", Version, 3, "v3"},
		{"Sensitive has no decoration", Sensitive, "abandon", "abandon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%v) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatterSprintf(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	result := Code.Sprintf("keysmith secrets %s", "encrypt")
	want := "`keysmith secrets encrypt`"
	if result != want {
		t.Errorf("Code.Sprintf() = %q, want %q", result, want)
	}
}

func TestNoColorFunction(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	if !noColor() {
		t.Error("noColor() should return true when NO_COLOR is set")
	}
	os.Unsetenv("NO_COLOR")

	originalNoColor := color.NoColor
	color.NoColor = true
	if !noColor() {
		t.Error("noColor() should return true when color.NoColor is true")
	}
	color.NoColor = originalNoColor
}

func TestEnsureNewline(t *testing.T) {
	if EnsureNewline("done") != "done\n" || EnsureNewline("done\n") != "done\n" || EnsureNewline("") != "\n" {
		t.Error("EnsureNewline should append exactly one trailing newline")
	}
}

func TestMnemonicBlock(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	got := MnemonicBlock([][]string{{"a", "b"}, {"c"}})
	want := " 1. a   2. b\n 3. c\n"
	if got != want {
		t.Errorf("MnemonicBlock() = %q, want %q", got, want)
	}
}

func TestVersionLabel(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	if got := VersionLabel(0); got != "(unversioned)" {
		t.Errorf("VersionLabel(0) = %q", got)
	}
	if got := VersionLabel(7); got != "v7" {
		t.Errorf("VersionLabel(7) = %q", got)
	}
}
