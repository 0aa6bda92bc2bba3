package repository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/timemanager/internal/database"
)

func setupSQLStore(t *testing.T, name string) *SQLSnapshotStore {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Driver: database.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared&_fk=1",
	}, logrus.NewEntry(log))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	store, err := NewSQLSnapshotStore(db)
	require.NoError(t, err)
	return store
}

func TestSnapshotStores(t *testing.T) {
	stores := map[string]func(t *testing.T) SnapshotStore{
		"memory": func(t *testing.T) SnapshotStore {
			return NewMemorySnapshotStore()
		},
		"file": func(t *testing.T) SnapshotStore {
			s, err := NewFileSnapshotStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"sql": func(t *testing.T) SnapshotStore {
			return setupSQLStore(t, "contract")
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Get(ctx, "tasks")
			assert.ErrorIs(t, err, ErrSnapshotNotFound)

			require.NoError(t, store.Put(ctx, "tasks", []byte(`[{"title":"first"}]`)))
			got, err := store.Get(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[{"title":"first"}]`, string(got))

			// Put replaces the whole slot
			require.NoError(t, store.Put(ctx, "tasks", []byte(`[]`)))
			got, err = store.Get(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			// other keys are independent
			require.NoError(t, store.Put(ctx, "tasks.corrupt", []byte(`{`)))
			got, err = store.Get(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, store.Delete(ctx, "tasks"))
			_, err = store.Get(ctx, "tasks")
			assert.ErrorIs(t, err, ErrSnapshotNotFound)

			// deleting a missing key is not an error
			assert.NoError(t, store.Delete(ctx, "missing"))
		})
	}
}

func TestMemorySnapshotStore_CopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	payload := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", payload))
	payload[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileSnapshotStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "tasks", []byte("[]")))

	info, err := os.Stat(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// no temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = NewFileSnapshotStore("")
	assert.Error(t, err)
}

func TestSQLSnapshotStore_UpdatedAt(t *testing.T) {
	ctx := context.Background()
	store := setupSQLStore(t, "updated_at")
	fixed := time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	_, err := store.UpdatedAt(ctx, "tasks")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Put(ctx, "tasks", []byte("[]")))
	got, err := store.UpdatedAt(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, fixed.Equal(got), "expected %v, got %v", fixed, got)

	store.now = func() time.Time { return fixed.Add(time.Hour) }
	require.NoError(t, store.Put(ctx, "tasks", []byte("[1]")))
	got, err = store.UpdatedAt(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, fixed.Add(time.Hour).Equal(got))
}

func TestFileSnapshotStore_UpdatedAt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	_, err = store.UpdatedAt(ctx, "tasks")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Put(ctx, "tasks", []byte("[]")))
	stamp := time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "tasks.json"), stamp, stamp))

	got, err := store.UpdatedAt(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(got), "expected %v, got %v", stamp, got)
}

func TestTimestampedStores(t *testing.T) {
	var store SnapshotStore = NewMemorySnapshotStore()
	_, ok := store.(Timestamped)
	assert.False(t, ok)

	var _ Timestamped = (*FileSnapshotStore)(nil)
	var _ Timestamped = (*SQLSnapshotStore)(nil)
}
