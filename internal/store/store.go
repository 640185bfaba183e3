package store

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// DefaultCurrentVersion is the version Current returns unless configured.
const DefaultCurrentVersion = 1

// Option configures a Store.
type Option func(*options)

type options struct {
	current int
}

// WithCurrentVersion sets the version returned by Current.
func WithCurrentVersion(v int) Option {
	return func(o *options) { o.current = v }
}

// Descriptor reports what Persist wrote.
type Descriptor[R Record] struct {
	Record R
	// Index is the index file path, empty when the material was not indexed.
	Index string
}

// PersistOptions controls where and how Persist writes material.
type PersistOptions struct {
	// Version selects the versioned file layout when greater than zero.
	Version int
	// IndexName records the version in <IndexName>.index.<kind>.json.
	// It requires a Version.
	IndexName string
	// Replace allows overwriting existing material files.
	Replace bool
}

// Store holds the versions of one logical name. The in-memory snapshot is
// built by Load and replaced wholesale by every later Load; Persist and
// Remove change the files only.
//
// A Store is not safe for concurrent use, and two processes writing the
// same index race with the last full rewrite winning.
type Store[M any, R Record] struct {
	fsys    FS
	dir     string
	name    string
	kind    Kind[M, R]
	current int

	loaded   bool
	versions []int
	material map[int]M
}

// New returns an unloaded store for name under dir.
func New[M any, R Record](fsys FS, dir, name string, kind Kind[M, R], opts ...Option) (*Store[M, R], error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	o := options{current: DefaultCurrentVersion}
	for _, opt := range opts {
		opt(&o)
	}
	if o.current < 1 {
		return nil, fmt.Errorf("current version %d must be positive: %w", o.current, kerrors.ErrValidation)
	}
	return &Store[M, R]{
		fsys:     fsys,
		dir:      dir,
		name:     name,
		kind:     kind,
		current:  o.current,
		material: map[int]M{},
	}, nil
}

// Name returns the logical name the store manages.
func (s *Store[M, R]) Name() string { return s.name }

// CurrentVersion returns the version Current resolves to.
func (s *Store[M, R]) CurrentVersion() int { return s.current }

// IndexPath returns the path of the index file for indexName.
func (s *Store[M, R]) IndexPath(indexName string) string {
	return filepath.Join(s.dir, IndexFile(indexName, s.kind.Type()))
}

// Load reads material into memory, replacing any earlier snapshot.
//
// With an empty indexName the canonical unversioned file(s) are read into
// the current version; a missing file is ErrNotFound. Otherwise every
// version of this name recorded in the index is read; a missing index is an
// empty index.
func (s *Store[M, R]) Load(ctx context.Context, indexName string) error {
	material := map[int]M{}
	var versions []int

	if indexName == "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := s.kind.Record(s.dir, s.name, 0)
		m, err := s.read(r)
		if err != nil {
			return err
		}
		material[s.current] = m
		versions = append(versions, s.current)
	} else {
		records, err := readIndex[R](s.fsys, s.IndexPath(indexName))
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.RecordName() != s.name {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := s.read(r)
			if err != nil {
				return fmt.Errorf("loading %s version %d: %w", s.name, r.RecordVersion(), err)
			}
			if _, dup := material[r.RecordVersion()]; !dup {
				versions = append(versions, r.RecordVersion())
			}
			material[r.RecordVersion()] = m
		}
		slices.Sort(versions)
	}

	s.material = material
	s.versions = versions
	s.loaded = true
	return nil
}

func (s *Store[M, R]) read(r R) (M, error) {
	var zero M
	for _, f := range s.kind.Files(r) {
		exists, err := s.fsys.Exists(f)
		if err != nil {
			return zero, fmt.Errorf("checking %s: %w", f, err)
		}
		if !exists {
			return zero, fmt.Errorf("%s: %w", f, kerrors.ErrNotFound)
		}
	}
	return s.kind.Read(s.fsys, r)
}

// Get returns the material for version from the loaded snapshot. A version
// of zero or less means the current version.
func (s *Store[M, R]) Get(version int) (M, error) {
	if version <= 0 {
		version = s.current
	}
	m, ok := s.material[version]
	if !ok {
		var zero M
		return zero, fmt.Errorf("%s version %d: %w", s.name, version, kerrors.ErrNotFound)
	}
	return m, nil
}

// Current returns the material for the current version.
func (s *Store[M, R]) Current() (M, error) {
	return s.Get(s.current)
}

// Versions returns the loaded versions in ascending order.
func (s *Store[M, R]) Versions() []int {
	return slices.Clone(s.versions)
}

// Loaded reports whether Load has succeeded at least once.
func (s *Store[M, R]) Loaded() bool { return s.loaded }

// Records returns the index entries for this name without reading material.
func (s *Store[M, R]) Records(ctx context.Context, indexName string) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := readIndex[R](s.fsys, s.IndexPath(indexName))
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		if r.RecordName() == s.name {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b R) int { return a.RecordVersion() - b.RecordVersion() })
	return out, nil
}

// Persist writes m to disk and, when opts.IndexName is set, records it in the
// index. Collisions are checked before any file is touched: a version already
// in the index is ErrAlreadyExists even with Replace, and existing material
// files are ErrAlreadyExists unless Replace is set.
func (s *Store[M, R]) Persist(ctx context.Context, m M, opts PersistOptions) (Descriptor[R], error) {
	var desc Descriptor[R]

	if opts.Version < 0 {
		return desc, fmt.Errorf("version %d must be positive: %w", opts.Version, kerrors.ErrValidation)
	}
	if opts.IndexName != "" && opts.Version == 0 {
		return desc, fmt.Errorf("indexed material needs a version: %w", kerrors.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return desc, err
	}

	r := s.kind.Record(s.dir, s.name, opts.Version)
	desc.Record = r

	var records []R
	if opts.IndexName != "" {
		desc.Index = s.IndexPath(opts.IndexName)
		var err error
		if records, err = readIndex[R](s.fsys, desc.Index); err != nil {
			return desc, err
		}
		if findRecord(records, s.name, opts.Version) >= 0 {
			return desc, fmt.Errorf("%s version %d in index %s: %w", s.name, opts.Version, opts.IndexName, kerrors.ErrAlreadyExists)
		}
	}

	var existing []string
	for _, f := range s.kind.Files(r) {
		exists, err := s.fsys.Exists(f)
		if err != nil {
			return desc, fmt.Errorf("checking %s: %w", f, err)
		}
		if exists {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 && !opts.Replace {
		return desc, fmt.Errorf("%s: %w", existing[0], kerrors.ErrAlreadyExists)
	}

	if err := s.fsys.MkdirAll(s.dir); err != nil {
		return desc, fmt.Errorf("creating %s: %w", s.dir, err)
	}
	for _, f := range existing {
		if err := s.fsys.Remove(f); err != nil {
			return desc, fmt.Errorf("removing %s: %w", f, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return desc, err
	}
	if err := s.kind.Write(s.fsys, r, m); err != nil {
		return desc, err
	}

	if opts.IndexName != "" {
		records = append(records, r)
		if err := writeIndex(s.fsys, desc.Index, records); err != nil {
			return desc, err
		}
	}
	return desc, nil
}

// Remove drops version from the index and rewrites it. Material files are
// left on disk and the loaded snapshot is unchanged until the next Load.
func (s *Store[M, R]) Remove(ctx context.Context, indexName string, version int) (R, error) {
	var removed R
	if indexName == "" {
		return removed, fmt.Errorf("index name is empty: %w", kerrors.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return removed, err
	}

	path := s.IndexPath(indexName)
	records, err := readIndex[R](s.fsys, path)
	if err != nil {
		return removed, err
	}
	if len(records) == 0 {
		return removed, fmt.Errorf("index %s: %w", indexName, kerrors.ErrEmptyIndex)
	}

	i := findRecord(records, s.name, version)
	if i < 0 {
		return removed, fmt.Errorf("%s version %d in index %s: %w", s.name, version, indexName, kerrors.ErrNotFound)
	}
	removed = records[i]
	records = slices.Delete(records, i, i+1)

	if err := writeIndex(s.fsys, path, records); err != nil {
		return removed, err
	}
	return removed, nil
}
