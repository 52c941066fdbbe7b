package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Version int64  `json:"version"`
}

func (n note) RecordID() string          { return n.ID }
func (n note) RecordVersion() int64      { return n.Version }
func (n *note) SetRecordVersion(v int64) { n.Version = v }

func open(t *testing.T) (*Store, *Collection[note, *note]) {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s, NewCollection[note, *note](s, "notes")
}

func TestLoadInitializesMissingCollection(t *testing.T) {
	s, c := open(t)

	recs, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, recs)

	// First read commits an empty array so later readers see real state.
	raw, err := os.ReadFile(filepath.Join(s.Dir(), "notes.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestAppendAndLoad(t *testing.T) {
	s, c := open(t)

	require.NoError(t, c.Append(note{ID: "a", Body: "first", Version: 99}))
	require.NoError(t, c.Append(note{ID: "b", Body: "second"}))

	recs, err := c.Load()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, int64(1), recs[0].Version, "append forces version 1")
	assert.Equal(t, int64(1), recs[1].Version)

	// The file on disk is a plain JSON array.
	raw, err := os.ReadFile(filepath.Join(s.Dir(), "notes.json"))
	require.NoError(t, err)
	var onDisk []note
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, recs, onDisk)
}

func TestAppendIfRejectsConflicts(t *testing.T) {
	_, c := open(t)
	sameBody := func(in note) func(note) bool {
		return func(e note) bool { return e.Body == in.Body }
	}

	first := note{ID: "a", Body: "taken"}
	require.NoError(t, c.AppendIf(first, sameBody(first)))

	dup := note{ID: "b", Body: "taken"}
	require.ErrorIs(t, c.AppendIf(dup, sameBody(dup)), ErrConflict)

	other := note{ID: "c", Body: "free"}
	require.NoError(t, c.AppendIf(other, sameBody(other)))

	recs, err := c.Load()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "c", recs[1].ID)
}

func TestUpdateBumpsVersionAndPersists(t *testing.T) {
	_, c := open(t)
	require.NoError(t, c.Append(note{ID: "a", Body: "old"}))

	updated, err := c.Update("a", func(n *note) error {
		n.Body = "new"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Body)
	assert.Equal(t, int64(2), updated.Version)

	recs, err := c.Load()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, updated, recs[0])
}

func TestUpdateUnknownID(t *testing.T) {
	_, c := open(t)
	_, err := c.Update("missing", func(n *note) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMutatorErrorLeavesStateUntouched(t *testing.T) {
	_, c := open(t)
	require.NoError(t, c.Append(note{ID: "a", Body: "old"}))

	wantErr := assert.AnError
	_, err := c.Update("a", func(n *note) error {
		n.Body = "half-written"
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	recs, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, "old", recs[0].Body)
	assert.Equal(t, int64(1), recs[0].Version)
}

func TestFind(t *testing.T) {
	_, c := open(t)
	require.NoError(t, c.Append(note{ID: "a", Body: "keep"}))
	require.NoError(t, c.Append(note{ID: "b", Body: "drop"}))
	require.NoError(t, c.Append(note{ID: "c", Body: "keep"}))

	got, err := c.Find(func(n note) bool { return n.Body == "keep" })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestSaveReplacesCollection(t *testing.T) {
	_, c := open(t)
	require.NoError(t, c.Append(note{ID: "a"}))
	require.NoError(t, c.Save([]note{{ID: "z", Version: 1}}))

	recs, err := c.Load()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "z", recs[0].ID)
}

func TestGenerateIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 2000)
	for i := 0; i < 2000; i++ {
		id := GenerateID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
