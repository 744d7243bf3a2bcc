// Package signal turns one symbol's daily price history into a directional
// call, a confidence score, and an options strategy recommendation.
package signal

import (
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/indicator"
	"github.com/sudz7/n50-swing-algo/pkg/util"
)

// MinHistory is the shortest history any indicator is meaningful on.
// Shorter series produce no signal rather than an error.
const MinHistory = 10

// Scoring thresholds. These are empirical constants tuned against the live
// dashboard, not derived from data. Do not adjust without re-baselining.
const (
	rsiOversold   = 35.0
	rsiOverbought = 65.0
	bbLowerZone   = 0.2
	bbUpperZone   = 0.8
	smaStretch    = 0.02
	maxAbsScore   = 6.0
	spreadTier    = 70 // confidence above this trades spreads over naked buys
	historyWindow = 60
)

// Generator produces Signals from price history. The clock is injectable so
// expiry selection and timestamps are deterministic in tests.
type Generator struct {
	now func() time.Time
}

// New creates a Generator using the wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock creates a Generator with a fixed clock source.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate computes all indicators and the composite score for one symbol.
// Returns nil when history is too short to score; a nil result means "skip
// this symbol", never a fault.
func (g *Generator) Generate(symbol, sector string, closes, highs, lows []float64) *models.Signal {
	if len(closes) < MinHistory {
		return nil
	}

	price := closes[len(closes)-1]
	rsi := indicator.RSI(closes, indicator.DefaultRSIPeriod)
	macd := indicator.MACD(closes)
	bb := indicator.Bollinger(closes, indicator.DefaultBollingerPeriod)
	atr := indicator.ATR(highs, lows, closes, indicator.DefaultATRPeriod)
	ema9 := indicator.EMA(closes, 9)
	ema21 := indicator.EMA(closes, 21)
	sma20 := indicator.SMA(closes, 20)

	change := 0.0
	if len(closes) > 1 {
		prev := closes[len(closes)-2]
		change = util.Round2((price - prev) / prev * 100)
	}
	change5d := 0.0
	if len(closes) > 5 {
		prev := closes[len(closes)-6]
		change5d = util.Round2((price - prev) / prev * 100)
	}

	var score float64
	var reasons []string

	switch {
	case rsi < rsiOversold:
		score += 2
		reasons = append(reasons, "RSI oversold")
	case rsi > rsiOverbought:
		score -= 2
		reasons = append(reasons, "RSI overbought")
	case rsi < 50:
		score += 0.5
	default:
		score -= 0.5
	}

	if macd.Hist > 0 {
		score += 1.5
		reasons = append(reasons, "MACD bullish crossover")
	} else {
		score -= 1.5
		reasons = append(reasons, "MACD bearish crossover")
	}

	if ema9 > ema21 {
		score += 1
		reasons = append(reasons, "9EMA above 21EMA")
	} else {
		score -= 1
		reasons = append(reasons, "9EMA below 21EMA")
	}

	bbPos := 0.5
	if bandRange := bb.Upper - bb.Lower; bandRange > 0 {
		bbPos = (price - bb.Lower) / bandRange
	}
	if bbPos < bbLowerZone {
		score += 1.5
		reasons = append(reasons, "Price near BB lower band")
	} else if bbPos > bbUpperZone {
		score -= 1.5
		reasons = append(reasons, "Price near BB upper band")
	}

	if price > sma20*(1+smaStretch) {
		score += 0.5
	} else if price < sma20*(1-smaStretch) {
		score -= 0.5
	}

	direction := models.DirectionNeutral
	if score >= 1 {
		direction = models.DirectionLong
	} else if score <= -1 {
		direction = models.DirectionShort
	}

	abs := score
	if abs < 0 {
		abs = -abs
	}
	confidence := util.RoundHalfEven(abs / maxAbsScore * 100)
	if confidence > 99 {
		confidence = 99
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	now := g.now()
	strategy, details := buildStrategy(symbol, direction, confidence, price, atr, now)

	history := closes
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	return &models.Signal{
		Symbol:         symbol,
		Sector:         sector,
		Price:          util.Round2(price),
		Change:         change,
		Change5D:       change5d,
		RSI:            rsi,
		MACD:           models.MACD{Line: macd.Line, Signal: macd.Signal, Hist: macd.Hist},
		Bollinger:      models.Bollinger{Upper: bb.Upper, Lower: bb.Lower, Mid: bb.Mid, Width: bb.Width},
		BBPos:          util.Round2(bbPos),
		SMA20:          sma20,
		EMA9:           ema9,
		EMA21:          ema21,
		ATR:            atr,
		Score:          util.Round2(score),
		Direction:      direction,
		Confidence:     confidence,
		Reasons:        reasons,
		OptionStrategy: strategy,
		OptionDetails:  details,
		PriceHistory:   util.RoundSlice2(history),
		LastUpdated:    now,
	}
}
