// Package store implements the file-backed record store used when no
// external database is configured. Each collection is persisted as a
// single JSON array in its own file under the data directory. All
// mutation goes through load → mutate in memory → save; saves write
// to a temporary file and rename it into place so a failed write
// never corrupts the previously committed state. A per-collection
// mutex serializes read-modify-write cycles so two concurrent updates
// against the same collection cannot lose writes.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by AppendIf when an existing record already
// claims the uniqueness predicate.
var ErrConflict = errors.New("record conflict")

// ErrUnavailable is returned when the underlying medium cannot be
// read or written. It is fatal to the current operation; callers may
// retry the whole operation since updates re-read current state.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the durable root of all collections. Construct one at
// process start with Open and pass it by reference; there is no
// ambient global instance.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open ensures the data directory exists and returns a Store rooted
// at it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the data directory the store was opened with.
func (s *Store) Dir() string { return s.dir }

// lock returns the mutex guarding the named collection, creating it
// on first use.
func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

// path returns the file backing the named collection.
func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// readFile reads the raw bytes of a collection file. When the file
// does not exist it initializes the collection to an empty array on
// disk before returning, so a subsequent reader always sees committed
// state.
func (s *Store) readFile(collection string) ([]byte, error) {
	p := s.path(collection)
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		if werr := s.writeFile(collection, []byte("[]")); werr != nil {
			return nil, werr
		}
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, collection, err)
	}
	if len(b) == 0 {
		return []byte("[]"), nil
	}
	return b, nil
}

// writeFile atomically replaces the collection file: the bytes are
// written to a temporary file in the same directory and renamed over
// the committed file.
func (s *Store) writeFile(collection string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file for %s: %v", ErrUnavailable, collection, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, collection, err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: commit %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}

// GenerateID returns a process-wide-unique identifier built from a
// nanosecond timestamp and a random suffix. Callers must not assume
// lexical ordering implies creation order across processes.
func GenerateID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal; fall back to the
		// timestamp alone rather than panic.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatInt(time.Now().UnixNano(), 36) + hex.EncodeToString(buf)
}
