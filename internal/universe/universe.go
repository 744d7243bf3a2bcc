// Package universe holds the fixed NIFTY 50 basket tracked by the service.
package universe

// Nifty50 is the tracked basket, in index weight order.
var Nifty50 = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK",
	"HINDUNILVR", "SBIN", "BHARTIARTL", "ITC", "KOTAKBANK",
	"LT", "AXISBANK", "ASIANPAINT", "MARUTI", "WIPRO",
	"SUNPHARMA", "TITAN", "BAJFINANCE", "POWERGRID", "NTPC",
	"TATASTEEL", "JSWSTEEL", "ADANIPORTS", "HCLTECH", "ULTRACEMCO",
	"NESTLEIND", "TATAMOTORS", "M&M", "ONGC", "COALINDIA",
	"BPCL", "GRASIM", "TECHM", "INDUSINDBK", "EICHERMOT",
	"DRREDDY", "CIPLA", "DIVISLAB", "BAJAJFINSV", "TATACONSUM",
	"APOLLOHOSP", "BRITANNIA", "HEROMOTOCO", "HINDALCO", "SBILIFE",
	"HDFCLIFE", "UPL", "SHRIRAMFIN", "BEL", "TRENT",
}

var sectors = map[string]string{
	"RELIANCE": "Energy", "TCS": "IT", "HDFCBANK": "Banking", "INFY": "IT",
	"ICICIBANK": "Banking", "HINDUNILVR": "FMCG", "SBIN": "Banking",
	"BHARTIARTL": "Telecom", "ITC": "FMCG", "KOTAKBANK": "Banking",
	"LT": "Infra", "AXISBANK": "Banking", "ASIANPAINT": "Paints",
	"MARUTI": "Auto", "WIPRO": "IT", "SUNPHARMA": "Pharma",
	"TITAN": "Consumer", "BAJFINANCE": "NBFC", "POWERGRID": "Power",
	"NTPC": "Power", "TATASTEEL": "Metal", "JSWSTEEL": "Metal",
	"ADANIPORTS": "Port", "HCLTECH": "IT", "ULTRACEMCO": "Cement",
	"NESTLEIND": "FMCG", "TATAMOTORS": "Auto", "M&M": "Auto",
	"ONGC": "Energy", "COALINDIA": "Mining", "BPCL": "Energy",
	"GRASIM": "Conglomerate", "TECHM": "IT", "INDUSINDBK": "Banking",
	"EICHERMOT": "Auto", "DRREDDY": "Pharma", "CIPLA": "Pharma",
	"DIVISLAB": "Pharma", "BAJAJFINSV": "NBFC", "TATACONSUM": "FMCG",
	"APOLLOHOSP": "Healthcare", "BRITANNIA": "FMCG", "HEROMOTOCO": "Auto",
	"HINDALCO": "Metal", "SBILIFE": "Insurance", "HDFCLIFE": "Insurance",
	"UPL": "Agro", "SHRIRAMFIN": "NBFC", "BEL": "Defence", "TRENT": "Retail",
}

// Sector returns the sector tag for a symbol, or "Misc" when unknown.
func Sector(symbol string) string {
	if s, ok := sectors[symbol]; ok {
		return s
	}
	return "Misc"
}

// Batches splits symbols into provider-sized fetch batches.
func Batches(symbols []string, size int) [][]string {
	if size <= 0 {
		size = len(symbols)
	}
	var out [][]string
	for i := 0; i < len(symbols); i += size {
		end := i + size
		if end > len(symbols) {
			end = len(symbols)
		}
		out = append(out, symbols[i:end])
	}
	return out
}
