/*
Package watcher runs the scrape, reconcile and notify cycle on a fixed
cadence.
*/
package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shanehull/unicabot/internal/history"
	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/metrics"
	"github.com/shanehull/unicabot/internal/notify"
	"github.com/shanehull/unicabot/internal/subs"
	"github.com/shanehull/unicabot/internal/types"
	"github.com/shanehull/unicabot/internal/unica"
)

// PageSource fetches the raw events page.
type PageSource interface {
	Fetch(ctx context.Context) (string, error)
	URL() string
}

// EventNotifier delivers one event to a set of chats.
type EventNotifier interface {
	NotifyEvent(ctx context.Context, e types.Event, recipients []types.ChatID) notify.Report
}

// CycleResult summarizes one reconciliation cycle.
type CycleResult struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Parsed    int           `json:"parsed"`
	Removed   int           `json:"removed"`
	New       []types.Event `json:"new"`
	Sent      int           `json:"sent"`
	Failed    int           `json:"failed"`
	Err       error         `json:"-"`
}

// Outcome is the metrics label for the cycle.
func (r CycleResult) Outcome() string {
	switch {
	case errors.Is(r.Err, history.ErrNothingNew):
		return metrics.ResultNothingNew
	case r.Err != nil:
		return metrics.ResultFetchError
	default:
		return metrics.ResultNew
	}
}

type Config struct {
	ShortWait time.Duration
	LongWait  time.Duration
}

// Watcher owns the reconciliation loop. Only one cycle runs at a time.
type Watcher struct {
	source   PageSource
	catalog  *history.Catalog
	registry *subs.Registry
	notifier EventNotifier
	cfg      Config

	mu   sync.RWMutex
	last *CycleResult
}

func New(source PageSource, catalog *history.Catalog, registry *subs.Registry, notifier EventNotifier, cfg Config) *Watcher {
	return &Watcher{
		source:   source,
		catalog:  catalog,
		registry: registry,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Run alternates a short wait, a cycle and a long wait until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) {
	logger := applog.WithComponent("watcher")
	logger.Info().
		Str("url", w.source.URL()).
		Dur("short_wait", w.cfg.ShortWait).
		Dur("long_wait", w.cfg.LongWait).
		Msg("Watcher started")

	for {
		if !sleep(ctx, w.cfg.ShortWait) {
			break
		}
		w.RunOnce(ctx)
		if !sleep(ctx, w.cfg.LongWait) {
			break
		}
	}

	logger.Info().Msg("Watcher stopped")
}

// RunOnce fetches the page, reconciles the catalog and notifies every
// subscriber of each new event.
func (w *Watcher) RunOnce(ctx context.Context) (res CycleResult) {
	timer := metrics.NewTimer()
	res = CycleResult{ID: uuid.NewString(), StartedAt: time.Now()}
	logger := applog.WithComponent("watcher").With().Str("cycle_id", res.ID).Logger()

	defer func() {
		res.Duration = timer.Duration()
		timer.ObserveDuration(metrics.CycleDuration)
		metrics.CyclesTotal.WithLabelValues(res.Outcome()).Inc()
		metrics.EventsKnown.Set(float64(w.catalog.Len()))
		metrics.Subscribers.Set(float64(w.registry.Len()))
		w.setLast(res)
	}()

	markup, err := w.source.Fetch(ctx)
	if err != nil {
		res.Err = err
		logger.Error().Err(err).Msg("Failed to fetch events page, skipping cycle")
		return res
	}

	current := unica.ParseEvents(markup, w.source.URL())
	res.Parsed = len(current)

	rec, err := w.catalog.Reconcile(current)
	res.Removed = len(rec.Removed)
	metrics.EventsRemovedTotal.Add(float64(res.Removed))
	for _, e := range rec.Removed {
		logger.Debug().Str("title", e.Title).Msg("Event left the page")
	}
	if err != nil {
		res.Err = err
		logger.Info().Int("parsed", res.Parsed).Int("removed", res.Removed).Msg("Nothing new")
		return res
	}

	res.New = rec.New
	metrics.EventsDiscoveredTotal.Add(float64(len(rec.New)))
	logger.Info().Int("parsed", res.Parsed).Int("removed", res.Removed).Int("new", len(rec.New)).Msg("New events found")

	for i, e := range rec.New {
		// Events not yet announced stay out of the catalog so the next
		// cycle finds them again.
		if ctx.Err() != nil {
			logger.Warn().Int("pending", len(rec.New)-i).Msg("Cycle cancelled before all events were notified")
			break
		}
		w.catalog.Insert(e)
		logger.Debug().Str("title", e.Title).Msg("Added event")

		report := w.notifier.NotifyEvent(ctx, e, w.registry.Snapshot())
		res.Sent += report.Sent
		res.Failed += report.Failed
	}

	return res
}

// LastCycle returns the most recent cycle result, if any.
func (w *Watcher) LastCycle() (CycleResult, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.last == nil {
		return CycleResult{}, false
	}
	return *w.last, true
}

func (w *Watcher) setLast(res CycleResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = &res
}

// sleep waits for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
