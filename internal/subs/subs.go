/*
Package subs manages the set of chats subscribed to new-event notifications.
*/
package subs

import (
	"slices"
	"sync"

	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/store"
	"github.com/shanehull/unicabot/internal/types"
)

// FileName is the blob key holding the subscriber list.
const FileName = "subs.json"

// Registry is the authoritative subscriber set. Every mutation is written
// through to the store before the lock is released.
type Registry struct {
	mu    sync.Mutex
	ids   []types.ChatID
	store store.Store
}

// NewRegistry loads the persisted subscriber list from s.
func NewRegistry(s store.Store) *Registry {
	ids := store.LoadList[types.ChatID](s, FileName)
	// Older files may carry duplicates; keep first occurrences.
	deduped := make([]types.ChatID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(deduped, id) {
			deduped = append(deduped, id)
		}
	}
	return &Registry{ids: deduped, store: s}
}

// Subscribe adds id and reports whether the set changed.
func (r *Registry) Subscribe(id types.ChatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.ids, id) {
		return false
	}
	r.ids = append(r.ids, id)
	r.save()
	return true
}

// Unsubscribe removes id and reports whether the set changed. Removing a
// non-member is a no-op.
func (r *Registry) Unsubscribe(id types.ChatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.ids, id)
	if i < 0 {
		return false
	}
	r.ids = slices.Delete(r.ids, i, i+1)
	r.save()
	return true
}

func (r *Registry) IsSubscribed(id types.ChatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.ids, id)
}

// Snapshot returns a point-in-time copy of the subscriber ids.
func (r *Registry) Snapshot() []types.ChatID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ids)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

// save must be called with r.mu held.
func (r *Registry) save() {
	if err := store.SaveList(r.store, FileName, r.ids); err != nil {
		logger := applog.WithComponent("subs")
		logger.Error().Err(err).Msg("Failed to persist subscribers")
	}
}
