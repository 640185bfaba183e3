package utils

import (
	"path/filepath"
)

// ParseAbspath resolves p against root. An empty p is root itself and an
// absolute p is returned cleaned.
func ParseAbspath(root, p string) string {
	if p == "" {
		return root
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
