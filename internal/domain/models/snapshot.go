package models

import "time"

// Summary tallies directional calls across one snapshot.
type Summary struct {
	Longs    int `json:"longs"`
	Shorts   int `json:"shorts"`
	Neutrals int `json:"neutrals"`
	Total    int `json:"total"`
}

// MarketSnapshot is the aggregate result of one successful fetch cycle.
// It is replaced wholesale; readers see either the old or the new value,
// never a partial update.
type MarketSnapshot struct {
	Stocks      []Signal   `json:"stocks"`
	Index       IndexQuote `json:"nifty"`
	Summary     Summary    `json:"summary"`
	FetchedAt   time.Time  `json:"fetchedAt"`
	NextRefresh int        `json:"nextRefresh"` // seconds until a refresh becomes eligible
	DataSource  string     `json:"dataSource"`
}

// Tally recomputes the direction summary from the snapshot's signals.
func Tally(stocks []Signal) Summary {
	var s Summary
	for _, sig := range stocks {
		switch sig.Direction {
		case DirectionLong:
			s.Longs++
		case DirectionShort:
			s.Shorts++
		default:
			s.Neutrals++
		}
	}
	s.Total = len(stocks)
	return s
}
