package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	bs, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })

	return map[string]Store{"file": fs, "bolt": bs}
}

func TestLoadListMissingWritesEmpty(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			items := LoadList[record](s, "events.json")
			assert.NotNil(t, items)
			assert.Empty(t, items)

			data, err := s.Read("events.json")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(data))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := []record{{Title: "Judo", Date: "1 mai"}, {Title: "Natation", Date: "2 mai"}}

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveList(s, "events.json", want))
			assert.Equal(t, want, LoadList[record](s, "events.json"))
		})
	}
}

func TestLoadListCorruptBlob(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write("subs.json", []byte("{not json")))

			ids := LoadList[int64](s, "subs.json")
			assert.Empty(t, ids)

			data, err := s.Read("subs.json")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(data))
		})
	}
}

func TestLoadListNullBlob(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write("subs.json", []byte("null")))
			assert.NotNil(t, LoadList[int64](s, "subs.json"))
		})
	}
}

func TestSaveListNilWritesEmptyArray(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveList[int64](s, "subs.json", nil))

			data, err := s.Read("subs.json")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(data))
		})
	}
}

func TestReadMissingIsErrNotFound(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read("nope.json")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, SaveList(s, "subs.json", []int64{1, 2}))

	data, err := os.ReadFile(filepath.Join(dir, "subs.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[1,2]", string(data))
}

func TestSaveListSurfacesWriteError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	// A directory in place of the blob makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "events.json"), 0o755))

	err = SaveList(s, "events.json", []record{{Title: "x"}})
	assert.Error(t, err)
}
