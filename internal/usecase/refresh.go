// Package usecase coordinates fetch cycles against the market-data
// provider and serves the resulting snapshot to readers without blocking.
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/domain/repository"
	"github.com/sudz7/n50-swing-algo/internal/signal"
	"github.com/sudz7/n50-swing-algo/internal/universe"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

// fallbackIndex is served when the index quote cannot be fetched, so the
// dashboard header never renders empty.
var fallbackIndex = models.IndexQuote{Price: 22450.0}

// Health reports cache state for the health endpoint.
type Health struct {
	CacheAge     int  `json:"cacheAge"` // seconds, -1 before first snapshot
	StocksCached int  `json:"stocksCached"`
	Fetching     bool `json:"fetching"`
}

// Config tunes one Coordinator.
type Config struct {
	Symbols      []string
	IndexSymbol  string
	LookbackDays int
	BatchSize    int
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// Coordinator owns the cached snapshot and the single refresh worker.
// Readers never block on a fetch: GetSnapshot returns whatever snapshot
// exists (possibly stale, possibly none) and at most requests one
// background refresh.
type Coordinator struct {
	cfg     Config
	market  repository.MarketData
	gen     *signal.Generator
	metrics repository.Metrics
	sinks   []repository.SnapshotSink
	log     *logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	snapshot  *models.MarketSnapshot
	fetchedAt time.Time
	fetching  bool

	trigger chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSinks registers snapshot sinks notified after each successful cycle.
func WithSinks(sinks ...repository.SnapshotSink) Option {
	return func(c *Coordinator) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// WithClock injects a clock source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator creates a Coordinator. Call Start to launch the worker.
func NewCoordinator(cfg Config, market repository.MarketData, gen *signal.Generator, metrics repository.Metrics, log *logger.Logger, opts ...Option) *Coordinator {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = universe.Nifty50
	}
	if cfg.IndexSymbol == "" {
		cfg.IndexSymbol = "^NSEI"
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 60
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 120 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}

	c := &Coordinator{
		cfg:     cfg,
		market:  market,
		gen:     gen,
		metrics: metrics,
		log:     log,
		now:     time.Now,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the refresh worker goroutine.
func (c *Coordinator) Start() {
	go c.worker()
}

// Stop shuts the worker down and waits for a running cycle to finish.
func (c *Coordinator) Stop(ctx context.Context) error {
	close(c.done)
	select {
	case <-c.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetSnapshot returns the cached snapshot, or nil before the first
// successful cycle. A stale snapshot is still returned as-is; staleness
// only requests one background refresh. Never blocks on fetching.
func (c *Coordinator) GetSnapshot() *models.MarketSnapshot {
	c.mu.Lock()
	snap := c.snapshot
	stale := snap == nil || c.now().Sub(c.fetchedAt) > c.cfg.CacheTTL
	fetching := c.fetching
	c.mu.Unlock()

	if stale && !fetching {
		c.requestRefresh()
	}
	return snap
}

// TriggerRefresh requests a background refresh. Returns false when a
// cycle is already running or queued; calling it twice is harmless.
func (c *Coordinator) TriggerRefresh() bool {
	c.mu.Lock()
	fetching := c.fetching
	c.mu.Unlock()
	if fetching {
		return false
	}
	return c.requestRefresh()
}

// GetHealth reports the snapshot age and worker state.
func (c *Coordinator) GetHealth() Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := Health{CacheAge: -1, Fetching: c.fetching}
	if c.snapshot != nil {
		h.CacheAge = int(c.now().Sub(c.fetchedAt).Seconds())
		h.StocksCached = len(c.snapshot.Stocks)
	}
	return h
}

func (c *Coordinator) requestRefresh() bool {
	select {
	case c.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (c *Coordinator) worker() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		case <-c.trigger:
			c.runCycle()
		}
	}
}

func (c *Coordinator) runCycle() {
	c.mu.Lock()
	if c.fetching {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.mu.Unlock()
	}()

	start := c.now()
	snap := c.fetchAll()

	if len(snap.Stocks) == 0 {
		// Keep whatever snapshot we have rather than serving an empty one.
		c.log.Warn("refresh cycle produced no signals, keeping previous snapshot")
		if c.metrics != nil {
			c.metrics.RecordCycleFailure()
		}
		return
	}

	c.mu.Lock()
	c.snapshot = snap
	c.fetchedAt = snap.FetchedAt
	c.mu.Unlock()

	elapsed := c.now().Sub(start)
	if c.metrics != nil {
		c.metrics.RecordCycle(elapsed.Seconds(), len(snap.Stocks))
		c.metrics.RecordDirectionTally(snap.Summary.Longs, snap.Summary.Shorts, snap.Summary.Neutrals)
	}
	c.log.Info("refresh cycle complete",
		logger.Int("stocks", len(snap.Stocks)),
		logger.Int("longs", snap.Summary.Longs),
		logger.Int("shorts", snap.Summary.Shorts),
		logger.Duration("elapsed", elapsed),
	)

	// Sinks run outside the lock so a slow consumer cannot stall readers.
	for _, sink := range c.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
		if err := sink.PublishSnapshot(ctx, snap); err != nil {
			c.log.Warn("snapshot sink failed", logger.Error(err))
		}
		cancel()
	}
}

func (c *Coordinator) fetchAll() *models.MarketSnapshot {
	index := c.fetchIndex()

	stocks := make([]models.Signal, 0, len(c.cfg.Symbols))
	for _, batch := range universe.Batches(c.cfg.Symbols, c.cfg.BatchSize) {
		for _, symbol := range batch {
			if sig := c.fetchOne(symbol); sig != nil {
				stocks = append(stocks, *sig)
			}
		}
	}

	return &models.MarketSnapshot{
		Stocks:      stocks,
		Index:       index,
		Summary:     models.Tally(stocks),
		FetchedAt:   c.now(),
		NextRefresh: int(c.cfg.CacheTTL.Seconds()),
		DataSource:  "yahoo",
	}
}

func (c *Coordinator) fetchIndex() models.IndexQuote {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	index, err := c.market.FetchIndexQuote(ctx, c.cfg.IndexSymbol)
	if err != nil {
		c.log.Warn("index quote fetch failed, serving fallback",
			logger.String("index", c.cfg.IndexSymbol),
			logger.Error(err),
		)
		if c.metrics != nil {
			c.metrics.RecordProviderError("index")
		}
		return fallbackIndex
	}
	return index
}

// fetchOne degrades per symbol: any error or short history skips the
// symbol and the cycle carries on.
func (c *Coordinator) fetchOne(symbol string) *models.Signal {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	quotes, err := c.market.FetchHistory(ctx, symbol, c.cfg.LookbackDays)
	if err != nil {
		c.log.Warn("history fetch failed",
			logger.String("symbol", symbol),
			logger.Error(err),
		)
		if c.metrics != nil {
			c.metrics.RecordProviderError("history")
		}
		return nil
	}
	if len(quotes) < signal.MinHistory {
		c.log.Debug("history too short, skipping",
			logger.String("symbol", symbol),
			logger.Int("samples", len(quotes)),
		)
		return nil
	}

	closes, highs, lows := models.Series(quotes)
	sig := c.gen.Generate(symbol, universe.Sector(symbol), closes, highs, lows)
	if sig != nil && c.metrics != nil {
		c.metrics.RecordLastPrice(symbol, sig.Price)
	}
	return sig
}
