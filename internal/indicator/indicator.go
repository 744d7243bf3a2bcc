// Package indicator provides technical indicator calculations over daily
// price series.
//
// All functions are pure and operate on chronological slices, oldest first.
// Short histories are not errors: each indicator has a documented
// insufficient-data default. Results are rounded to 2 decimal places; the
// rounding is part of the contract.
package indicator

import (
	"math"

	"github.com/sudz7/n50-swing-algo/pkg/util"
)

const (
	DefaultRSIPeriod       = 14
	DefaultBollingerPeriod = 20
	DefaultATRPeriod       = 14
)

// RSI computes the Relative Strength Index over a trailing window using
// simple rolling means of gains and losses. This is deliberately not
// Wilder's smoothed RSI; the two diverge and the simple-mean variant is the
// one this service has always reported.
//
// Returns 50.0 when fewer than period+1 samples, 100.0 on a pure uptrend
// (zero average loss).
func RSI(series []float64, period int) float64 {
	if len(series) < period+1 {
		return 50.0
	}

	var gains, losses float64
	// Trailing window of `period` deltas.
	for i := len(series) - period; i < len(series); i++ {
		delta := series[i] - series[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return util.Round2(100 - 100/(1+rs))
}

// MACDResult holds the MACD line, signal line, and histogram values.
type MACDResult struct {
	Line   float64
	Signal float64
	Hist   float64
}

// MACD computes the 12/26 EMA difference and its 9-period signal line.
// EMAs are recursive, seeded with the first sample, no warm-up truncation.
// Returns zeros when fewer than 26 samples.
func MACD(series []float64) MACDResult {
	if len(series) < 26 {
		return MACDResult{}
	}

	ema12 := emaSeries(series, 12)
	ema26 := emaSeries(series, 26)

	line := make([]float64, len(series))
	for i := range series {
		line[i] = ema12[i] - ema26[i]
	}
	signal := emaSeries(line, 9)

	last := len(series) - 1
	return MACDResult{
		Line:   util.Round2(line[last]),
		Signal: util.Round2(signal[last]),
		Hist:   util.Round2(line[last] - signal[last]),
	}
}

// BollingerResult holds the band levels and width as a percentage of the mid.
type BollingerResult struct {
	Upper float64
	Lower float64
	Mid   float64
	Width float64
}

// Bollinger computes bands at mid ± 2 standard deviations over a trailing
// window. With fewer than `period` samples the band collapses to the last
// price with zero width.
func Bollinger(series []float64, period int) BollingerResult {
	if len(series) < period {
		p := series[len(series)-1]
		return BollingerResult{Upper: p, Lower: p, Mid: p, Width: 0}
	}

	window := series[len(series)-period:]
	var sum float64
	for _, v := range window {
		sum += v
	}
	mid := sum / float64(period)

	var sq float64
	for _, v := range window {
		d := v - mid
		sq += d * d
	}
	std := math.Sqrt(sq / float64(period))

	width := 0.0
	if mid != 0 {
		width = util.Round2(std * 4 / mid * 100)
	}
	return BollingerResult{
		Upper: util.Round2(mid + 2*std),
		Lower: util.Round2(mid - 2*std),
		Mid:   util.Round2(mid),
		Width: width,
	}
}

// ATR computes the Average True Range as a trailing simple mean of true
// range. Returns 0 when fewer than period+1 samples.
func ATR(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n < period+1 || len(highs) != n || len(lows) != n {
		return 0
	}

	var sum float64
	for i := n - period; i < n; i++ {
		tr := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		if hc > tr {
			tr = hc
		}
		if lc > tr {
			tr = lc
		}
		sum += tr
	}
	return util.Round2(sum / float64(period))
}

// EMA returns the latest exponential moving average with smoothing
// 2/(span+1), seeded with the first sample.
func EMA(series []float64, span int) float64 {
	if len(series) == 0 {
		return 0
	}
	s := emaSeries(series, span)
	return util.Round2(s[len(s)-1])
}

// SMA returns the trailing simple moving average, falling back to the
// latest price when history is shorter than the window.
func SMA(series []float64, window int) float64 {
	if len(series) == 0 {
		return 0
	}
	if len(series) < window {
		return series[len(series)-1]
	}
	var sum float64
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	return util.Round2(sum / float64(window))
}

// emaSeries computes the full recursive EMA series, unrounded.
func emaSeries(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}
