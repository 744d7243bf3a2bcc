package models

// Quote is one daily OHLC sample. Only the fields the signal engine
// consumes are kept; open and volume are dropped at the provider boundary.
type Quote struct {
	Close float64
	High  float64
	Low   float64
}

// Series splits a chronological quote history into the three parallel
// slices the indicator functions operate on.
func Series(quotes []Quote) (closes, highs, lows []float64) {
	closes = make([]float64, len(quotes))
	highs = make([]float64, len(quotes))
	lows = make([]float64, len(quotes))
	for i, q := range quotes {
		closes[i] = q.Close
		highs[i] = q.High
		lows[i] = q.Low
	}
	return closes, highs, lows
}

// IndexQuote is the broad-market index snapshot served alongside stocks.
type IndexQuote struct {
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changePct"`
}
