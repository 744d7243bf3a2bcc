package signal

import (
	"testing"
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC) // a Monday
}

func repeat(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestGenerateTooShortHistory(t *testing.T) {
	g := NewWithClock(testClock)
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108}
	if sig := g.Generate("TCS", "IT", closes, closes, closes); sig != nil {
		t.Fatalf("expected nil signal for %d samples", len(closes))
	}
}

func TestGenerateTenSampleScenario(t *testing.T) {
	g := NewWithClock(testClock)
	closes := []float64{100, 101, 99, 102, 105, 103, 107, 110, 108, 112}
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + 1
		lows[i] = c - 1
	}

	sig := g.Generate("RELIANCE", "Energy", closes, highs, lows)
	if sig == nil {
		t.Fatal("expected a signal for 10 samples")
	}

	// Hand-computed from the scoring rules:
	// RSI defaults to 50 (under 15 samples)      -> -0.5
	// MACD zeros (under 26 samples), hist <= 0   -> -1.5
	// EMA9 106.35 > EMA21 103.55                 -> +1.0
	// Degenerate band -> bbPos 0.5               ->  0
	// price within ±2% of SMA20 fallback (112)   ->  0
	if sig.Score != -1.0 {
		t.Errorf("score = %v, want -1.0", sig.Score)
	}
	if sig.Direction != models.DirectionShort {
		t.Errorf("direction = %s, want SHORT", sig.Direction)
	}
	if sig.Confidence != 17 { // round(1/6*100)
		t.Errorf("confidence = %d, want 17", sig.Confidence)
	}
	if sig.EMA9 != 106.35 || sig.EMA21 != 103.55 {
		t.Errorf("EMA9/EMA21 = %v/%v, want 106.35/103.55", sig.EMA9, sig.EMA21)
	}
	if sig.RSI != 50.0 {
		t.Errorf("RSI = %v, want insufficient-data default 50", sig.RSI)
	}
	if sig.BBPos != 0.5 {
		t.Errorf("bbPos = %v, want 0.5 on zero-width band", sig.BBPos)
	}
	if sig.Change != 3.7 {
		t.Errorf("change = %v, want 3.7", sig.Change)
	}
	if sig.Change5D != 6.67 { // (112-105)/105, baseline six samples back
		t.Errorf("change5d = %v, want 6.67", sig.Change5D)
	}
	if len(sig.Reasons) != 2 || sig.Reasons[0] != "MACD bearish crossover" || sig.Reasons[1] != "9EMA above 21EMA" {
		t.Errorf("reasons = %v", sig.Reasons)
	}

	// SHORT at confidence 17 buys an ATM put.
	if sig.OptionStrategy != StrategyATMPutBuy {
		t.Errorf("strategy = %q, want %q", sig.OptionStrategy, StrategyATMPutBuy)
	}
	if sig.OptionDetails.Buy != "RELIANCE 110 PE" {
		t.Errorf("buy leg = %q, want RELIANCE 110 PE", sig.OptionDetails.Buy)
	}
	if sig.OptionDetails.Target != "₹107.52" {
		t.Errorf("target = %q, want ₹107.52", sig.OptionDetails.Target)
	}
	if sig.OptionDetails.StopLoss != "₹113.68" {
		t.Errorf("stopLoss = %q, want ₹113.68", sig.OptionDetails.StopLoss)
	}
	if sig.OptionDetails.Expiry != "05 Mar '26" {
		t.Errorf("expiry = %q, want 05 Mar '26", sig.OptionDetails.Expiry)
	}
}

func TestGenerateConstantSeries(t *testing.T) {
	g := NewWithClock(testClock)
	closes := repeat(30, 1000)

	sig := g.Generate("TCS", "IT", closes, closes, closes)
	if sig == nil {
		t.Fatal("expected a signal")
	}

	// Flat series: RSI 100 (zero loss) -2, MACD hist 0 -1.5, EMA tie -1.
	if sig.RSI != 100.0 {
		t.Errorf("RSI = %v, want 100 on zero-loss series", sig.RSI)
	}
	if sig.Bollinger.Width != 0 {
		t.Errorf("band width = %v, want 0 on zero variance", sig.Bollinger.Width)
	}
	if sig.BBPos != 0.5 {
		t.Errorf("bbPos = %v, want 0.5", sig.BBPos)
	}
	if sig.Score != -4.5 {
		t.Errorf("score = %v, want -4.5", sig.Score)
	}
	if sig.Direction != models.DirectionShort {
		t.Errorf("direction = %s, want SHORT", sig.Direction)
	}
	if sig.Confidence != 75 {
		t.Errorf("confidence = %d, want 75", sig.Confidence)
	}
	if len(sig.Reasons) != 3 {
		t.Errorf("reasons = %v, want capped at 3", sig.Reasons)
	}

	// High confidence SHORT trades the spread.
	if sig.OptionStrategy != StrategyBearPutSpread {
		t.Errorf("strategy = %q, want %q", sig.OptionStrategy, StrategyBearPutSpread)
	}
	if sig.OptionDetails.Buy != "TCS 1000 PE" {
		t.Errorf("buy leg = %q", sig.OptionDetails.Buy)
	}
	if sig.OptionDetails.Sell != "TCS 960 PE" { // 970 ties to even multiple of 20
		t.Errorf("sell leg = %q, want TCS 960 PE", sig.OptionDetails.Sell)
	}
	if sig.OptionDetails.MaxProfit != "₹0" { // zero-range series has zero ATR
		t.Errorf("maxProfit = %q, want ₹0", sig.OptionDetails.MaxProfit)
	}
}

func TestConfidenceBounds(t *testing.T) {
	g := NewWithClock(testClock)
	series := [][]float64{
		{100, 101, 99, 102, 105, 103, 107, 110, 108, 112},
		repeat(40, 500),
		{500, 490, 480, 470, 460, 450, 440, 430, 420, 410, 400, 390, 380, 370, 360, 350},
	}
	for _, closes := range series {
		sig := g.Generate("X", "Misc", closes, closes, closes)
		if sig == nil {
			continue
		}
		if sig.Confidence < 0 || sig.Confidence > 99 {
			t.Errorf("confidence %d out of [0,99]", sig.Confidence)
		}
		neutral := sig.Score > -1 && sig.Score < 1
		if neutral != (sig.Direction == models.DirectionNeutral) {
			t.Errorf("direction %s inconsistent with score %v", sig.Direction, sig.Score)
		}
	}
}

func TestPriceHistoryTrimmedTo60(t *testing.T) {
	g := NewWithClock(testClock)
	closes := make([]float64, 90)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	sig := g.Generate("INFY", "IT", closes, closes, closes)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if len(sig.PriceHistory) != 60 {
		t.Errorf("price history length = %d, want 60", len(sig.PriceHistory))
	}
	if sig.PriceHistory[len(sig.PriceHistory)-1] != closes[len(closes)-1] {
		t.Errorf("history must end at the latest close")
	}
}
