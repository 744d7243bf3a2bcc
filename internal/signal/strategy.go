package signal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/option"
	"github.com/sudz7/n50-swing-algo/pkg/util"
)

// Strategy names as shown on the dashboard.
const (
	StrategyBullCallSpread = "Bull Call Spread"
	StrategyATMCallBuy     = "ATM Call Buy"
	StrategyBearPutSpread  = "Bear Put Spread"
	StrategyATMPutBuy      = "ATM Put Buy"
	StrategyIronCondor     = "Iron Condor"
)

// Spread width and risk multipliers relative to ATR.
const (
	spreadWidthUp   = 1.03
	spreadWidthDown = 0.97
	callTarget      = 1.04
	callStop        = 0.985
	putTarget       = 0.96
	putStop         = 1.015
	condorSellCall  = 1.025
	condorBuyCall   = 1.04
	condorSellPut   = 0.975
	condorBuyPut    = 0.96
)

// buildStrategy selects an options strategy for the direction and confidence
// tier and fills in concrete strikes, expiry, and rupee figures.
func buildStrategy(symbol string, direction models.Direction, confidence int, price, atr float64, now time.Time) (string, models.OptionDetails) {
	strike := option.RoundToStrike(price)
	expiry := option.FormatExpiry(option.NextExpiry(now))

	switch direction {
	case models.DirectionLong:
		if confidence > spreadTier {
			return StrategyBullCallSpread, models.OptionDetails{
				Buy:       leg(symbol, strike, "CE"),
				Sell:      leg(symbol, option.RoundToStrike(price*spreadWidthUp), "CE"),
				Expiry:    expiry,
				MaxProfit: rupees(atr * 3),
				MaxLoss:   rupees(atr * 1.5),
				Premium:   rupees(atr * 1.2),
			}
		}
		return StrategyATMCallBuy, models.OptionDetails{
			Buy:      leg(symbol, strike, "CE"),
			Expiry:   expiry,
			Target:   rupees2(price * callTarget),
			StopLoss: rupees2(price * callStop),
			Premium:  rupees(atr * 0.8),
		}
	case models.DirectionShort:
		if confidence > spreadTier {
			return StrategyBearPutSpread, models.OptionDetails{
				Buy:       leg(symbol, strike, "PE"),
				Sell:      leg(symbol, option.RoundToStrike(price*spreadWidthDown), "PE"),
				Expiry:    expiry,
				MaxProfit: rupees(atr * 3),
				MaxLoss:   rupees(atr * 1.5),
				Premium:   rupees(atr * 1.2),
			}
		}
		return StrategyATMPutBuy, models.OptionDetails{
			Buy:      leg(symbol, strike, "PE"),
			Expiry:   expiry,
			Target:   rupees2(price * putTarget),
			StopLoss: rupees2(price * putStop),
			Premium:  rupees(atr * 0.8),
		}
	default:
		return StrategyIronCondor, models.OptionDetails{
			SellCall: leg(symbol, option.RoundToStrike(price*condorSellCall), "CE"),
			BuyCall:  leg(symbol, option.RoundToStrike(price*condorBuyCall), "CE"),
			SellPut:  leg(symbol, option.RoundToStrike(price*condorSellPut), "PE"),
			BuyPut:   leg(symbol, option.RoundToStrike(price*condorBuyPut), "PE"),
			Expiry:   expiry,
			Premium:  rupees(atr * 0.6),
		}
	}
}

func leg(symbol string, strike int, kind string) string {
	return fmt.Sprintf("%s %d %s", symbol, strike, kind)
}

// rupees formats a whole-rupee amount, ties to even.
func rupees(v float64) string {
	return "₹" + strconv.Itoa(util.RoundHalfEven(v))
}

// rupees2 formats a price target at 2 decimals, trailing zeros trimmed.
func rupees2(v float64) string {
	return "₹" + strconv.FormatFloat(util.Round2(v), 'f', -1, 64)
}
