package ui

import (
	"fmt"
	"strings"
)

// MnemonicBlock renders grouped mnemonic words as numbered lines,
// e.g. " 1. abandon  2. ability ...".
func MnemonicBlock(lines [][]string) string {
	var b strings.Builder
	n := 0
	for _, line := range lines {
		cells := make([]string, len(line))
		for i, w := range line {
			n++
			cells[i] = fmt.Sprintf("%2d. %s", n, Sensitive.Sprint(w))
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteByte('\n')
	}
	return b.String()
}

// VersionLabel renders a stored version, with 0 shown as unversioned.
func VersionLabel(version int) string {
	if version == 0 {
		return Muted.Sprint("unversioned")
	}
	return Version.Sprint(version)
}
