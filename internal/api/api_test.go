package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/unicabot/internal/history"
	"github.com/shanehull/unicabot/internal/metrics"
	"github.com/shanehull/unicabot/internal/store"
	"github.com/shanehull/unicabot/internal/subs"
	"github.com/shanehull/unicabot/internal/types"
	"github.com/shanehull/unicabot/internal/watcher"
)

type fakeCycles struct {
	res watcher.CycleResult
	ok  bool
}

func (f fakeCycles) LastCycle() (watcher.CycleResult, bool) { return f.res, f.ok }

func newTestServer(t *testing.T, cycles CycleReporter) (*httptest.Server, *history.Catalog, *subs.Registry) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	catalog := history.NewCatalog(s)
	registry := subs.NewRegistry(s)
	srv := NewServer(":0", "test", catalog, registry, cycles)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, catalog, registry
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	return resp
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "ok", body["status"])
}

func TestListEvents(t *testing.T) {
	ts, catalog, _ := newTestServer(t, nil)

	var empty []types.Event
	getJSON(t, ts.URL+"/api/events", &empty)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	judo := types.Event{Title: "Judo", Date: "2 mai", Link: "https://x/judo"}
	catalog.Insert(judo)

	var events []types.Event
	getJSON(t, ts.URL+"/api/events", &events)
	assert.Equal(t, []types.Event{judo}, events)
}

func TestStatusWithoutCycle(t *testing.T) {
	ts, catalog, registry := newTestServer(t, fakeCycles{})
	catalog.Insert(types.Event{Title: "Judo", Date: "2 mai"})
	registry.Subscribe(1)
	registry.Subscribe(2)

	var st Status
	getJSON(t, ts.URL+"/api/status", &st)

	assert.Equal(t, "test", st.Version)
	assert.Equal(t, 1, st.Events)
	assert.Equal(t, 2, st.Subscribers)
	assert.Nil(t, st.LastCycle)
}

func TestStatusWithCycle(t *testing.T) {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ts, _, _ := newTestServer(t, fakeCycles{ok: true, res: watcher.CycleResult{
		ID:        "c1",
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
		Parsed:    3,
		Err:       errors.New("boom"),
	}})

	var st Status
	getJSON(t, ts.URL+"/api/status", &st)

	require.NotNil(t, st.LastCycle)
	assert.Equal(t, "c1", st.LastCycle.ID)
	assert.True(t, started.Equal(st.LastCycle.StartedAt))
	assert.Equal(t, int64(1500), st.LastCycle.DurationMS)
	assert.Equal(t, metrics.ResultFetchError, st.LastCycle.Outcome)
	assert.Equal(t, "boom", st.LastCycle.Error)
	assert.Equal(t, 3, st.LastCycle.Parsed)
	assert.Empty(t, st.LastCycle.New)
}

func TestStatusNothingNewHasNoError(t *testing.T) {
	ts, _, _ := newTestServer(t, fakeCycles{ok: true, res: watcher.CycleResult{
		ID:  "c2",
		Err: history.ErrNothingNew,
	}})

	var st Status
	getJSON(t, ts.URL+"/api/status", &st)

	require.NotNil(t, st.LastCycle)
	assert.Equal(t, metrics.ResultNothingNew, st.LastCycle.Outcome)
	assert.Empty(t, st.LastCycle.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	var body errorResponse
	resp := getJSON(t, ts.URL+"/nope", &body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body.Error)
}
