package repository

import (
	"context"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
)

// MarketData is the external market-data collaborator. Implementations are
// expected to be unreliable: partial results, empty histories, and transport
// errors are all normal and handled per symbol by the caller.
type MarketData interface {
	// FetchHistory returns chronological daily OHLC samples for one symbol.
	// At least ~60 trading days should be requested so all indicators have
	// warm-up data; a short result is not an error.
	FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.Quote, error)

	// FetchIndexQuote returns the latest index level and day change.
	FetchIndexQuote(ctx context.Context, index string) (models.IndexQuote, error)
}

// SnapshotSink receives each newly published snapshot. Sinks must not block
// the refresh cycle for long; slow delivery is the sink's problem.
type SnapshotSink interface {
	PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error
}

// Metrics abstracts operational counters so the core does not depend on a
// concrete metrics backend.
type Metrics interface {
	RecordCycle(durationSeconds float64, signals int)
	RecordCycleFailure()
	RecordProviderError(kind string)
	RecordDirectionTally(longs, shorts, neutrals int)
	RecordLastPrice(symbol string, price float64)
}
