/*
Package metrics defines the Prometheus metrics exported by unicabot.
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle results.
const (
	ResultNew        = "new"
	ResultNothingNew = "nothing_new"
	ResultFetchError = "fetch_error"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicabot_cycles_total",
			Help: "Reconciliation cycles by result",
		},
		[]string{"result"},
	)

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "unicabot_cycle_duration_seconds",
			Help:    "Time taken by one fetch, reconcile and notify cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsKnown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unicabot_events_known",
			Help: "Events currently in the catalog",
		},
	)

	EventsDiscoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unicabot_events_discovered_total",
			Help: "Events seen for the first time",
		},
	)

	EventsRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unicabot_events_removed_total",
			Help: "Events dropped because they left the page",
		},
	)

	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unicabot_subscribers",
			Help: "Subscribed chats",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicabot_notifications_total",
			Help: "Notification deliveries by status",
		},
		[]string{"status"},
	)

	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicabot_commands_total",
			Help: "Bot commands handled by command name",
		},
		[]string{"command"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(EventsKnown)
	prometheus.MustRegister(EventsDiscoveredTotal)
	prometheus.MustRegister(EventsRemovedTotal)
	prometheus.MustRegister(Subscribers)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(CommandsTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures an operation for a histogram.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in seconds.
func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}
