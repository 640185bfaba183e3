package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileName is the audit log's name inside the key directory.
const FileName = "audit.jsonl"

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Operation names recorded in the log.
const (
	OpGenerate = "generate"
	OpRecover  = "recover"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
	OpRemove   = "remove"
	OpExport   = "export"
)

// Entry represents a single audit log entry. Key material never appears here.
type Entry struct {
	ID           string `json:"id"`
	Timestamp    string `json:"ts"` // RFC3339 with microseconds.
	Installation string `json:"installation,omitempty"`
	Operation    string `json:"op"`
	Kind         string `json:"kind,omitempty"` // secrets or keypairs.

	Name      string   `json:"name,omitempty"`
	Version   int      `json:"version,omitempty"`
	Index     string   `json:"index,omitempty"`
	Algorithm string   `json:"algorithm,omitempty"` // For encrypt/decrypt.
	Files     []string `json:"files,omitempty"`     // For encrypt/decrypt/export.
}

// NewEntry returns an entry for op stamped with a fresh id.
func NewEntry(op, installationID string) Entry {
	return Entry{
		ID:           uuid.New().String(),
		Operation:    op,
		Installation: installationID,
	}
}

// Log appends an entry to the audit log in dir.
// Failures are dropped; an operation never fails because auditing did.
func Log(dir string, entry Entry) {
	if dir == "" {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampLayout)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return
	}
	f, err := os.OpenFile(LogPath(dir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log in dir.
func LogPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// ReadEntries reads all entries from the audit log in dir.
// A missing log yields no entries.
func ReadEntries(dir string) ([]Entry, error) {
	data, err := os.ReadFile(LogPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines, such as a torn final write, are skipped.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Filter returns the entries matching op and name. Empty arguments match
// everything.
func Filter(entries []Entry, op, name string) []Entry {
	var out []Entry
	for _, e := range entries {
		if op != "" && e.Operation != op {
			continue
		}
		if name != "" && e.Name != name {
			continue
		}
		out = append(out, e)
	}
	return out
}
