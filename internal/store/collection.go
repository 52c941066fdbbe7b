package store

import (
	"encoding/json"
	"fmt"
)

// Record is the contract every persisted entity satisfies. The
// version counter backs optimistic concurrency: Update bumps it on
// every successful save, and the database backend rejects writes
// carrying a stale version.
type Record interface {
	RecordID() string
	RecordVersion() int64
	SetRecordVersion(int64)
}

// Collection is a typed view over one persisted collection. T is the
// entity value type and P its pointer type, which must satisfy
// Record. All operations hold the collection's mutex for the full
// load → mutate → save cycle.
type Collection[T any, P interface {
	*T
	Record
}] struct {
	store *Store
	name  string
}

// NewCollection binds a typed collection to the store under the given
// persisted name.
func NewCollection[T any, P interface {
	*T
	Record
}](s *Store, name string) *Collection[T, P] {
	return &Collection[T, P]{store: s, name: name}
}

// Name returns the persisted collection name.
func (c *Collection[T, P]) Name() string { return c.name }

func (c *Collection[T, P]) load() ([]T, error) {
	raw, err := c.store.readFile(c.name)
	if err != nil {
		return nil, err
	}
	var recs []T
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, c.name, err)
	}
	return recs, nil
}

func (c *Collection[T, P]) save(recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, c.name, err)
	}
	return c.store.writeFile(c.name, raw)
}

// Load returns every record in the collection, initializing the
// collection to an empty array on first read.
func (c *Collection[T, P]) Load() ([]T, error) {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	return c.load()
}

// Save atomically replaces the entire collection.
func (c *Collection[T, P]) Save(recs []T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	return c.save(recs)
}

// Append loads the collection, adds the record and saves the result.
// The record's version is forced to 1.
func (c *Collection[T, P]) Append(rec T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	recs, err := c.load()
	if err != nil {
		return err
	}
	P(&rec).SetRecordVersion(1)
	return c.save(append(recs, rec))
}

// AppendIf adds the record unless an existing record matches the
// conflict predicate, in which case it returns ErrConflict. The check
// and the append happen under the collection lock, so two concurrent
// inserts claiming the same unique value cannot both land.
func (c *Collection[T, P]) AppendIf(rec T, conflict func(T) bool) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	recs, err := c.load()
	if err != nil {
		return err
	}
	for i := range recs {
		if conflict(recs[i]) {
			return fmt.Errorf("%w: %s", ErrConflict, c.name)
		}
	}
	P(&rec).SetRecordVersion(1)
	return c.save(append(recs, rec))
}

// Update applies fn to the record with the given id under the
// collection lock and persists the result, bumping the record's
// version. It returns the updated record, or ErrNotFound when no
// record matches.
func (c *Collection[T, P]) Update(id string, fn func(*T) error) (T, error) {
	var zero T
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	recs, err := c.load()
	if err != nil {
		return zero, err
	}
	for i := range recs {
		if P(&recs[i]).RecordID() != id {
			continue
		}
		prev := P(&recs[i]).RecordVersion()
		if err := fn(&recs[i]); err != nil {
			return zero, err
		}
		P(&recs[i]).SetRecordVersion(prev + 1)
		if err := c.save(recs); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, fmt.Errorf("%w: %s/%s", ErrNotFound, c.name, id)
}

// Find returns every record matching the predicate, in collection
// order.
func (c *Collection[T, P]) Find(pred func(T) bool) ([]T, error) {
	recs, err := c.Load()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
