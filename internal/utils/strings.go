package utils

import (
	"regexp"
	"strings"

	"github.com/PolarWolf314/keysmith/internal/ui"
)

var (
	nonWordRegex    = regexp.MustCompile(`[\W\s]`)
	underscoreRegex = regexp.MustCompile(`_+`)
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseFileName normalizes a user-supplied name into a safe file stem:
// everything from the first dot is dropped, the rest lowercased, and runs
// of other characters collapsed to a single underscore.
//
//	ParseFileName("  My Deploy Key.pem ") == "my_deploy_key"
func ParseFileName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonWordRegex.ReplaceAllString(name, "_")
	name = underscoreRegex.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
