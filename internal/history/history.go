/*
Package history keeps the catalog of events already seen on the sport page.
*/
package history

import (
	"errors"
	"slices"
	"sync"

	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/store"
	"github.com/shanehull/unicabot/internal/types"
)

// FileName is the blob key holding the known events.
const FileName = "events.json"

// ErrNothingNew is returned by Reconcile when the scrape succeeded but found
// no event that is not already in the catalog.
var ErrNothingNew = errors.New("nothing new")

// Catalog is the authoritative set of known events. It never holds two equal
// records and is written through to the store on every change.
type Catalog struct {
	mu     sync.Mutex
	events []types.Event
	store  store.Store
}

// ReconcileResult describes one reconciliation pass.
type ReconcileResult struct {
	Removed []types.Event
	New     []types.Event
}

// NewCatalog loads the persisted catalog from s.
func NewCatalog(s store.Store) *Catalog {
	loaded := store.LoadList[types.Event](s, FileName)
	events := make([]types.Event, 0, len(loaded))
	for _, e := range loaded {
		if !types.Contains(events, e) {
			events = append(events, e)
		}
	}
	return &Catalog{events: events, store: s}
}

// All returns a point-in-time copy of the catalog.
func (c *Catalog) All() []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Insert appends e unless an equal event is already known, and reports
// whether the catalog changed. The store is only written on change.
func (c *Catalog) Insert(e types.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if types.Contains(c.events, e) {
		return false
	}
	c.events = append(c.events, e)
	c.save()
	return true
}

// Reconcile drops every known event missing from current, then returns the
// events of current that the catalog does not know yet, in page order. New
// events are not inserted here; the caller inserts each one before notifying.
// When there are none, the result is returned together with ErrNothingNew.
func (c *Catalog) Reconcile(current []types.Event) (ReconcileResult, error) {
	var res ReconcileResult
	res.Removed = c.removeStale(current)
	res.New = c.novel(current)

	if len(res.New) == 0 {
		return res, ErrNothingNew
	}
	return res, nil
}

func (c *Catalog) removeStale(current []types.Event) []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []types.Event
	kept := make([]types.Event, 0, len(c.events))
	for _, e := range c.events {
		if types.Contains(current, e) {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	c.events = kept
	c.save()
	return removed
}

func (c *Catalog) novel(current []types.Event) []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []types.Event
	for _, e := range current {
		if types.Contains(c.events, e) || types.Contains(fresh, e) {
			continue
		}
		fresh = append(fresh, e)
	}
	return fresh
}

// save must be called with c.mu held.
func (c *Catalog) save() {
	if err := store.SaveList(c.store, FileName, c.events); err != nil {
		logger := applog.WithComponent("history")
		logger.Error().Err(err).Msg("Failed to persist event catalog")
	}
}
