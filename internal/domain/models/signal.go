package models

import "time"

// Direction is the directional call for a symbol.
type Direction string

const (
	DirectionLong    Direction = "LONG"
	DirectionShort   Direction = "SHORT"
	DirectionNeutral Direction = "NEUTRAL"
)

// MACD bundles the MACD line, its signal line, and the histogram.
type MACD struct {
	Line   float64 `json:"macd"`
	Signal float64 `json:"signal"`
	Hist   float64 `json:"hist"`
}

// Bollinger bundles the band levels and width as a percentage of the mid.
type Bollinger struct {
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
	Mid   float64 `json:"mid"`
	Width float64 `json:"width"`
}

// OptionDetails carries the concrete instrument parameters of a strategy.
// Values are pre-formatted display strings matching the dashboard payload,
// e.g. "RELIANCE 2500 CE" or "₹142".
type OptionDetails struct {
	Buy       string `json:"buy,omitempty"`
	Sell      string `json:"sell,omitempty"`
	SellCall  string `json:"sellCall,omitempty"`
	BuyCall   string `json:"buyCall,omitempty"`
	SellPut   string `json:"sellPut,omitempty"`
	BuyPut    string `json:"buyPut,omitempty"`
	Expiry    string `json:"expiry"`
	Target    string `json:"target,omitempty"`
	StopLoss  string `json:"stopLoss,omitempty"`
	MaxProfit string `json:"maxProfit,omitempty"`
	MaxLoss   string `json:"maxLoss,omitempty"`
	Premium   string `json:"premium"`
}

// Signal is the per-symbol output of one generation pass. It is built
// whole by the generator and never mutated afterwards.
type Signal struct {
	Symbol         string        `json:"sym"`
	Sector         string        `json:"sector"`
	Price          float64       `json:"price"`
	Change         float64       `json:"change"`
	Change5D       float64       `json:"change5d"`
	RSI            float64       `json:"rsi"`
	MACD           MACD          `json:"macd"`
	Bollinger      Bollinger     `json:"bb"`
	BBPos          float64       `json:"bbPos"`
	SMA20          float64       `json:"sma20"`
	EMA9           float64       `json:"ema9"`
	EMA21          float64       `json:"ema21"`
	ATR            float64       `json:"atr"`
	Score          float64       `json:"score"`
	Direction      Direction     `json:"direction"`
	Confidence     int           `json:"confidence"`
	Reasons        []string      `json:"reasons"`
	OptionStrategy string        `json:"optionStrategy"`
	OptionDetails  OptionDetails `json:"optionDetails"`
	PriceHistory   []float64     `json:"priceHistory"`
	LastUpdated    time.Time     `json:"lastUpdated"`
}
