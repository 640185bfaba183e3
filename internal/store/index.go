package store

import (
	"encoding/json"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// Record is one entry of an index file.
type Record interface {
	RecordName() string
	RecordVersion() int
}

// readIndex returns every record in the index at path. A missing index is
// an empty index; an index that does not parse is ErrFormat.
func readIndex[R Record](fsys FS, path string) ([]R, error) {
	exists, err := fsys.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("checking index %s: %w", path, err)
	}
	if !exists {
		return []R{}, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, kerrors.ErrNotFound) {
			return []R{}, nil
		}
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}

	records := []R{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing index %s: %v: %w", path, err, kerrors.ErrFormat)
	}
	return records, nil
}

// ReadIndex returns every record in the index file at path, across all
// names. It follows the same missing and corrupt rules as Load.
func ReadIndex[R Record](fsys FS, path string) ([]R, error) {
	return readIndex[R](fsys, path)
}

// writeIndex replaces the index at path with records.
func writeIndex[R Record](fsys FS, path string, records []R) error {
	if records == nil {
		records = []R{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := fsys.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

func findRecord[R Record](records []R, name string, version int) int {
	for i, r := range records {
		if r.RecordName() == name && r.RecordVersion() == version {
			return i
		}
	}
	return -1
}
