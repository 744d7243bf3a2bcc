// Package option maps prices onto tradable option instrument parameters:
// strike increments by price tier and the weekly expiry convention.
package option

import (
	"time"

	"github.com/sudz7/n50-swing-algo/pkg/util"
)

// RoundToStrike maps a price to the nearest tradable strike increment.
// NSE weekly options tier increments by underlying price. Ties round to
// the even multiple (850 -> 840, not 860).
func RoundToStrike(price float64) int {
	switch {
	case price > 5000:
		return util.RoundHalfEven(price/100) * 100
	case price > 1000:
		return util.RoundHalfEven(price/50) * 50
	case price > 500:
		return util.RoundHalfEven(price/20) * 20
	default:
		return util.RoundHalfEven(price/10) * 10
	}
}

// NextExpiry returns the next weekly expiry (Thursday) strictly after today.
// On a Thursday it returns the following week's expiry: contracts expiring
// the same day are never recommended.
func NextExpiry(today time.Time) time.Time {
	days := (int(time.Thursday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// FormatExpiry renders an expiry date the way the dashboard displays it,
// e.g. "05 Mar '26".
func FormatExpiry(t time.Time) string {
	return t.Format("02 Jan '06")
}
