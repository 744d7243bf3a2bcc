package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/signal"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

type fakeMarket struct {
	mu           sync.Mutex
	historyCalls int
	history      func(symbol string) ([]models.Quote, error)
	index        func() (models.IndexQuote, error)
	gate         chan struct{} // when set, FetchHistory blocks until closed
}

func (f *fakeMarket) FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.Quote, error) {
	f.mu.Lock()
	f.historyCalls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.history != nil {
		return f.history(symbol)
	}
	return risingQuotes(30), nil
}

func (f *fakeMarket) FetchIndexQuote(ctx context.Context, index string) (models.IndexQuote, error) {
	if f.index != nil {
		return f.index()
	}
	return models.IndexQuote{Price: 22000, Change: 50, ChangePct: 0.23}, nil
}

func (f *fakeMarket) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls
}

type fakeMetrics struct {
	mu       sync.Mutex
	cycles   int
	failures int
}

func (m *fakeMetrics) RecordCycle(durationSeconds float64, signals int) {
	m.mu.Lock()
	m.cycles++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordCycleFailure() {
	m.mu.Lock()
	m.failures++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordProviderError(kind string)                 {}
func (m *fakeMetrics) RecordDirectionTally(longs, shorts, neutral int) {}
func (m *fakeMetrics) RecordLastPrice(symbol string, price float64)    {}

type captureSink struct {
	mu    sync.Mutex
	snaps []*models.MarketSnapshot
}

func (s *captureSink) PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error {
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
	return nil
}

func risingQuotes(n int) []models.Quote {
	quotes := make([]models.Quote, n)
	for i := range quotes {
		c := 100.0 + float64(i)
		quotes[i] = models.Quote{Close: c, High: c + 1, Low: c - 1}
	}
	return quotes
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestCoordinator(t *testing.T, market *fakeMarket, metrics *fakeMetrics, opts ...Option) *Coordinator {
	t.Helper()
	cfg := Config{
		Symbols:      []string{"RELIANCE", "TCS", "INFY"},
		CacheTTL:     120 * time.Second,
		FetchTimeout: 2 * time.Second,
	}
	return NewCoordinator(cfg, market, signal.New(), metrics, testLogger(t), opts...)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestGetSnapshotNilBeforeFirstCycle(t *testing.T) {
	c := newTestCoordinator(t, &fakeMarket{}, &fakeMetrics{})

	if snap := c.GetSnapshot(); snap != nil {
		t.Fatal("expected nil snapshot before first cycle")
	}
	// The nil read should have queued exactly one refresh request.
	if len(c.trigger) != 1 {
		t.Fatalf("trigger queue = %d, want 1", len(c.trigger))
	}
	// A second read must not queue another.
	c.GetSnapshot()
	if len(c.trigger) != 1 {
		t.Fatalf("trigger queue after second read = %d, want 1", len(c.trigger))
	}

	h := c.GetHealth()
	if h.CacheAge != -1 || h.StocksCached != 0 {
		t.Errorf("health = %+v, want cacheAge -1 with no stocks", h)
	}
}

func TestRefreshCyclePublishesSnapshot(t *testing.T) {
	market := &fakeMarket{}
	metrics := &fakeMetrics{}
	sink := &captureSink{}
	c := newTestCoordinator(t, market, metrics, WithSinks(sink))
	c.Start()
	defer c.Stop(context.Background())

	if !c.TriggerRefresh() {
		t.Fatal("TriggerRefresh returned false on idle coordinator")
	}
	waitFor(t, func() bool { return c.GetSnapshot() != nil }, "snapshot never published")

	snap := c.GetSnapshot()
	if len(snap.Stocks) != 3 {
		t.Fatalf("got %d stocks, want 3", len(snap.Stocks))
	}
	if snap.Summary.Total != 3 {
		t.Errorf("summary total = %d", snap.Summary.Total)
	}
	if snap.Index.Price != 22000 {
		t.Errorf("index price = %v", snap.Index.Price)
	}
	if snap.DataSource != "yahoo" {
		t.Errorf("dataSource = %q", snap.DataSource)
	}
	if snap.NextRefresh != 120 {
		t.Errorf("nextRefresh = %d", snap.NextRefresh)
	}

	waitFor(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.snaps) == 1
	}, "sink never notified")

	h := c.GetHealth()
	if h.StocksCached != 3 || h.Fetching {
		t.Errorf("health after cycle = %+v", h)
	}
}

func TestFailedCycleKeepsPreviousSnapshot(t *testing.T) {
	market := &fakeMarket{}
	metrics := &fakeMetrics{}
	c := newTestCoordinator(t, market, metrics)
	c.Start()
	defer c.Stop(context.Background())

	c.TriggerRefresh()
	waitFor(t, func() bool { return c.GetSnapshot() != nil }, "first cycle never completed")
	first := c.GetSnapshot()

	// Every subsequent history fetch fails; the cycle must not clobber
	// the snapshot we already have.
	market.mu.Lock()
	market.history = func(string) ([]models.Quote, error) {
		return nil, errors.New("upstream down")
	}
	market.mu.Unlock()

	c.TriggerRefresh()
	waitFor(t, func() bool {
		metrics.mu.Lock()
		defer metrics.mu.Unlock()
		return metrics.failures == 1
	}, "failed cycle never recorded")

	if snap := c.GetSnapshot(); snap != first {
		t.Fatal("failed cycle replaced the previous snapshot")
	}
}

func TestShortHistorySkipsSymbol(t *testing.T) {
	market := &fakeMarket{
		history: func(symbol string) ([]models.Quote, error) {
			if symbol == "TCS" {
				return risingQuotes(4), nil
			}
			return risingQuotes(30), nil
		},
	}
	c := newTestCoordinator(t, market, &fakeMetrics{})
	c.Start()
	defer c.Stop(context.Background())

	c.TriggerRefresh()
	waitFor(t, func() bool { return c.GetSnapshot() != nil }, "cycle never completed")

	snap := c.GetSnapshot()
	if len(snap.Stocks) != 2 {
		t.Fatalf("got %d stocks, want 2 (short history skipped)", len(snap.Stocks))
	}
	for _, s := range snap.Stocks {
		if s.Symbol == "TCS" {
			t.Error("short-history symbol present in snapshot")
		}
	}
}

func TestIndexFallback(t *testing.T) {
	market := &fakeMarket{
		index: func() (models.IndexQuote, error) {
			return models.IndexQuote{}, errors.New("no index")
		},
	}
	c := newTestCoordinator(t, market, &fakeMetrics{})
	c.Start()
	defer c.Stop(context.Background())

	c.TriggerRefresh()
	waitFor(t, func() bool { return c.GetSnapshot() != nil }, "cycle never completed")

	if got := c.GetSnapshot().Index; got != fallbackIndex {
		t.Errorf("index = %+v, want fallback %+v", got, fallbackIndex)
	}
}

func TestGetSnapshotNeverBlocksWhileFetching(t *testing.T) {
	gate := make(chan struct{})
	market := &fakeMarket{gate: gate}
	c := newTestCoordinator(t, market, &fakeMetrics{})
	c.Start()
	defer c.Stop(context.Background())

	c.TriggerRefresh()
	waitFor(t, func() bool { return c.GetHealth().Fetching }, "worker never started fetching")

	// Reads must return immediately even though a fetch is in flight.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.GetSnapshot()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("GetSnapshot blocked during a fetch cycle")
	}

	// And a second manual trigger during a fetch is a no-op.
	if c.TriggerRefresh() {
		t.Error("TriggerRefresh started a second concurrent cycle")
	}

	close(gate)
	waitFor(t, func() bool { return c.GetSnapshot() != nil }, "cycle never completed after gate opened")
}

func TestStaleSnapshotRequestsOneRefresh(t *testing.T) {
	now := time.Now()
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}

	market := &fakeMarket{}
	c := newTestCoordinator(t, market, &fakeMetrics{}, WithClock(clock))

	// Seed a snapshot without the worker running so trigger state is
	// directly observable.
	c.runCycle()
	if c.GetSnapshot() == nil {
		t.Fatal("seed cycle produced no snapshot")
	}
	if len(c.trigger) != 0 {
		t.Fatal("fresh snapshot should not queue a refresh")
	}

	clockMu.Lock()
	now = now.Add(130 * time.Second) // past the 120s TTL
	clockMu.Unlock()

	snap := c.GetSnapshot()
	if snap == nil {
		t.Fatal("stale read must still return the old snapshot")
	}
	if len(c.trigger) != 1 {
		t.Fatalf("trigger queue = %d, want 1", len(c.trigger))
	}
	c.GetSnapshot()
	c.GetSnapshot()
	if len(c.trigger) != 1 {
		t.Fatalf("repeated stale reads queued extra refreshes: %d", len(c.trigger))
	}
}
