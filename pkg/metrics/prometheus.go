package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	cycleDuration  prometheus.Histogram
	cycleSignals   prometheus.Gauge
	cycleFailures  prometheus.Counter
	providerErrors *prometheus.CounterVec
	directionTally *prometheus.GaugeVec
	lastPrice      *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "n50_refresh_cycle_duration_seconds",
				Help:    "Duration of a full market refresh cycle in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
			},
		),
		cycleSignals: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "n50_refresh_signals",
				Help: "Number of signals produced by the last refresh cycle",
			},
		),
		cycleFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "n50_refresh_failures_total",
				Help: "Total number of refresh cycles that produced no signals",
			},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "n50_provider_errors_total",
				Help: "Total number of market-data provider errors",
			},
			[]string{"type"},
		),
		directionTally: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "n50_signal_direction",
				Help: "Signal count per direction from the last refresh cycle",
			},
			[]string{"direction"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "n50_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordCycle records a completed refresh cycle.
func (r *Recorder) RecordCycle(durationSeconds float64, signals int) {
	r.cycleDuration.Observe(durationSeconds)
	r.cycleSignals.Set(float64(signals))
}

// RecordCycleFailure records a refresh cycle that produced no signals.
func (r *Recorder) RecordCycleFailure() {
	r.cycleFailures.Inc()
}

// RecordProviderError records a market-data provider error by kind.
func (r *Recorder) RecordProviderError(kind string) {
	r.providerErrors.WithLabelValues(kind).Inc()
}

// RecordDirectionTally records the per-direction signal counts.
func (r *Recorder) RecordDirectionTally(longs, shorts, neutrals int) {
	r.directionTally.WithLabelValues("long").Set(float64(longs))
	r.directionTally.WithLabelValues("short").Set(float64(shorts))
	r.directionTally.WithLabelValues("neutral").Set(float64(neutrals))
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
