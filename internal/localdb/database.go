package localdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ralt/pacquery/internal/models"
	"github.com/sirupsen/logrus"
)

// Per-package source files inside a store directory
const (
	descFileName  = "desc"
	mtreeFileName = "mtree"
)

// Database is a name-keyed, lazily filled, insert-only cache over the
// local package store. The backing directory contains one
// "<name>-<version>" subdirectory per installed package; a directory
// is a valid entry source only if it holds both a descriptor and a
// manifest file. Entries are added by Lookup or Populate, never
// removed or replaced, and never mutated after insertion. The backing
// filesystem is treated as read-only.
type Database struct {
	root string

	mu      sync.RWMutex
	entries map[string]*models.Entry

	scans int // backing-directory scans, read by tests
}

// New creates a database over the given store directory. Nothing is
// read until the first Lookup, Populate or ListNames call.
func New(root string) *Database {
	return &Database{
		root:    root,
		entries: make(map[string]*models.Entry),
	}
}

// Root returns the backing store directory
func (db *Database) Root() string {
	return db.root
}

// Get returns a cached entry without touching the filesystem
func (db *Database) Get(name string) (*models.Entry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.entries[name]
	return e, ok
}

// Names returns the names of all cached entries, sorted
func (db *Database) Names() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.entries))
	for name := range db.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the entry for a package name, reading it from the
// store on a cache miss. Directory names embed a version suffix, so
// the scan shortlists by name prefix and revalidates against the
// parsed descriptor's own name; a prefix match whose descriptor names
// a different package is skipped. Any I/O or parse failure during a
// matching attempt propagates. A miss after the full scan is a
// not-found error.
func (db *Database) Lookup(name string) (*models.Entry, error) {
	if e, ok := db.Get(name); ok {
		return e, nil
	}

	dirs, err := db.scan()
	if err != nil {
		return nil, err
	}

	for _, d := range dirs {
		if !strings.HasPrefix(d.Name(), name) {
			continue
		}
		dir := filepath.Join(db.root, d.Name())
		if !validEntryDir(dir) {
			continue
		}

		entry, err := ReadEntry(dir)
		if err != nil {
			return nil, err
		}
		if entry.Desc.Name != name {
			// False prefix match, e.g. "foobar-1.0-1" for "foo"
			continue
		}
		return db.insert(entry), nil
	}

	return nil, &models.StoreError{
		Type:    models.ErrNotFound,
		Package: name,
		Err:     fmt.Errorf("no installed package matches"),
	}
}

// Populate scans the whole store once and caches every valid entry
// whose directory name contains the query substring. An empty query
// matches everything, realizing full population. A parse failure for
// one candidate skips that candidate only.
func (db *Database) Populate(query string) error {
	dirs, err := db.scan()
	if err != nil {
		return err
	}

	for _, d := range dirs {
		if !strings.Contains(d.Name(), query) {
			continue
		}
		dir := filepath.Join(db.root, d.Name())
		if !validEntryDir(dir) {
			continue
		}

		logrus.Debugf("Reading store entry: %s", dir)
		entry, err := ReadEntry(dir)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", dir, err)
			continue
		}
		db.insert(entry)
	}

	return nil
}

// ListNames enumerates the descriptor names of all valid store
// directories without building full entries, skipping the manifest
// decompression that dominates entry construction. Unparsable
// descriptors are skipped with a warning.
func (db *Database) ListNames() ([]string, error) {
	dirs, err := db.scan()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range dirs {
		dir := filepath.Join(db.root, d.Name())
		if !validEntryDir(dir) {
			continue
		}
		rec, err := ReadDescFile(filepath.Join(dir, descFileName))
		if err != nil {
			logrus.Warnf("Skipping %s: %v", dir, err)
			continue
		}
		names = append(names, rec.Name)
	}
	return names, nil
}

// ReadEntry builds one entry from a store directory containing both
// source files
func ReadEntry(dir string) (*models.Entry, error) {
	rec, err := ReadDescFile(filepath.Join(dir, descFileName))
	if err != nil {
		return nil, err
	}
	files, err := ReadMtreeFile(filepath.Join(dir, mtreeFileName))
	if err != nil {
		return nil, err
	}
	return &models.Entry{Desc: *rec, Files: files}, nil
}

// insert stores an entry under its canonical descriptor name. The
// cache is insert-only: if the name is already present, the existing
// entry wins and is returned instead.
func (db *Database) insert(entry *models.Entry) *models.Entry {
	db.mu.Lock()
	defer db.mu.Unlock()
	if existing, ok := db.entries[entry.Desc.Name]; ok {
		return existing
	}
	db.entries[entry.Desc.Name] = entry
	return entry
}

// scan lists the store's subdirectories
func (db *Database) scan() ([]os.DirEntry, error) {
	db.mu.Lock()
	db.scans++
	db.mu.Unlock()

	all, err := os.ReadDir(db.root)
	if err != nil {
		return nil, &models.StoreError{
			Type: models.ErrIO,
			Err:  fmt.Errorf("failed to read store %s: %w", db.root, err),
		}
	}

	dirs := all[:0]
	for _, d := range all {
		if d.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs, nil
}

// validEntryDir reports whether a store directory carries both
// required source files
func validEntryDir(dir string) bool {
	for _, name := range []string{descFileName, mtreeFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}
