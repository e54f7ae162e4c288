package subs

import (
	"sync"
	"testing"

	"github.com/shanehull/unicabot/internal/store"
	"github.com/shanehull/unicabot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*Registry, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewRegistry(s), s
}

func TestSubscribeIsIdempotent(t *testing.T) {
	r, s := newRegistry(t)

	assert.True(t, r.Subscribe(7))
	assert.False(t, r.Subscribe(7))

	assert.Equal(t, []types.ChatID{7}, r.Snapshot())
	assert.Equal(t, []types.ChatID{7}, store.LoadList[types.ChatID](s, FileName))
}

func TestUnsubscribeNonMemberIsNoop(t *testing.T) {
	r, s := newRegistry(t)
	r.Subscribe(1)

	assert.False(t, r.Unsubscribe(99))
	assert.True(t, r.Unsubscribe(1))
	assert.False(t, r.Unsubscribe(1))

	assert.False(t, r.IsSubscribed(1))
	assert.Empty(t, store.LoadList[types.ChatID](s, FileName))
}

func TestRegistryReloadsFromStore(t *testing.T) {
	r, s := newRegistry(t)
	r.Subscribe(3)
	r.Subscribe(5)

	reloaded := NewRegistry(s)
	assert.True(t, reloaded.IsSubscribed(3))
	assert.True(t, reloaded.IsSubscribed(5))
	assert.Equal(t, 2, reloaded.Len())
}

func TestNewRegistryDropsDuplicates(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.SaveList(s, FileName, []types.ChatID{4, 4, 2}))

	r := NewRegistry(s)
	assert.Equal(t, []types.ChatID{4, 2}, r.Snapshot())
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	r, _ := newRegistry(t)
	r.Subscribe(1)
	r.Subscribe(2)

	snap := r.Snapshot()
	r.Unsubscribe(1)
	r.Subscribe(3)

	assert.Equal(t, []types.ChatID{1, 2}, snap)
}

func TestConcurrentSubscribe(t *testing.T) {
	r, _ := newRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id types.ChatID) {
			defer wg.Done()
			r.Subscribe(id % 10)
			_ = r.Snapshot()
		}(types.ChatID(i))
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
}
