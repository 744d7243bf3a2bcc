// Package yahoo fetches daily OHLC history and index quotes from the
// Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/service/ratelimit"
	"github.com/sudz7/n50-swing-algo/pkg/cache"
	nethttp "github.com/sudz7/n50-swing-algo/pkg/http"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
	"github.com/sudz7/n50-swing-algo/pkg/util"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// Option configures Client.
type Option func(*Client)

// Client implements the market-data provider against Yahoo Finance.
// Symbols are suffixed (".NS" for NSE) before hitting the API; index
// symbols beginning with '^' are passed through untouched.
type Client struct {
	http       *nethttp.Client
	limiter    *ratelimit.Limiter
	cache      cache.Service
	log        *logger.Logger
	baseURL    string
	suffix     string
	ratePerSec float64
	burst      float64
	historyTTL time.Duration
}

// NewClient creates a Yahoo Finance client.
func NewClient(log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		log:        log,
		baseURL:    "https://query1.finance.yahoo.com",
		suffix:     ".NS",
		ratePerSec: 5,
		burst:      10,
		historyTTL: time.Minute,
		limiter:    ratelimit.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = nethttp.NewClient(nethttp.WithTimeout(10 * time.Second))
	}
	return c
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithSuffix sets the exchange suffix appended to plain symbols.
func WithSuffix(suffix string) Option {
	return func(c *Client) {
		c.suffix = suffix
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *nethttp.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit sets the request pacing (tokens per second plus burst).
func WithRateLimit(perSec, burst float64) Option {
	return func(c *Client) {
		c.ratePerSec = perSec
		c.burst = burst
	}
}

// WithHistoryCache enables short-lived caching of per-symbol histories.
func WithHistoryCache(svc cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = svc
		c.historyTTL = ttl
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory returns chronological daily quotes for one symbol. Rows
// with a null close are dropped; a short or empty history is not an error.
func (c *Client) FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.Quote, error) {
	cacheKey := fmt.Sprintf("history:%s:%d", symbol, lookbackDays)
	if c.cache != nil {
		var cached []models.Quote
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	resp, err := c.chart(ctx, c.ticker(symbol), lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}

	quotes := parseHistory(resp)
	if c.cache != nil && len(quotes) > 0 {
		if err := c.cache.Set(ctx, cacheKey, quotes, c.historyTTL); err != nil {
			c.log.Warn("history cache write failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
		}
	}
	return quotes, nil
}

// FetchIndexQuote returns the latest index level and day change.
func (c *Client) FetchIndexQuote(ctx context.Context, index string) (models.IndexQuote, error) {
	resp, err := c.chart(ctx, index, 5)
	if err != nil {
		return models.IndexQuote{}, fmt.Errorf("fetch index %s: %w", index, err)
	}

	q, ok := parseIndexQuote(resp)
	if !ok {
		return models.IndexQuote{}, fmt.Errorf("fetch index %s: empty result", index)
	}
	return q, nil
}

func (c *Client) chart(ctx context.Context, ticker string, lookbackDays int) (*chartResponse, error) {
	if err := c.limiter.Wait(ctx, "yahoo", c.burst, c.ratePerSec); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &nethttp.RequestOptions{
		Method: nethttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, ticker),
		Headers: map[string]string{
			"User-Agent": userAgent,
		},
		QueryParams: map[string][]string{
			"range":    {rangeParam(lookbackDays)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart api: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	return &resp, nil
}

func (c *Client) ticker(symbol string) string {
	if strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + c.suffix
}

// rangeParam widens the lookback to the smallest Yahoo range that covers
// the requested trading days, accounting for weekends and holidays.
func rangeParam(lookbackDays int) string {
	switch {
	case lookbackDays <= 20:
		return "1mo"
	case lookbackDays <= 40:
		return "2mo"
	case lookbackDays <= 62:
		return "3mo"
	case lookbackDays <= 125:
		return "6mo"
	default:
		return "1y"
	}
}

func parseHistory(resp *chartResponse) []models.Quote {
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil
	}
	q := resp.Chart.Result[0].Indicators.Quote[0]

	quotes := make([]models.Quote, 0, len(q.Close))
	for i, c := range q.Close {
		if c == nil {
			continue
		}
		quote := models.Quote{Close: *c, High: *c, Low: *c}
		if i < len(q.High) && q.High[i] != nil {
			quote.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			quote.Low = *q.Low[i]
		}
		quotes = append(quotes, quote)
	}
	return quotes
}

func parseIndexQuote(resp *chartResponse) (models.IndexQuote, bool) {
	if len(resp.Chart.Result) == 0 {
		return models.IndexQuote{}, false
	}
	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return models.IndexQuote{}, false
	}

	q := models.IndexQuote{Price: util.Round2(meta.RegularMarketPrice)}
	if meta.ChartPreviousClose > 0 {
		change := meta.RegularMarketPrice - meta.ChartPreviousClose
		q.Change = util.Round2(change)
		q.ChangePct = util.Round2(change / meta.ChartPreviousClose * 100)
	}
	return q, true
}
