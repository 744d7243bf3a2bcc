package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sudz7/n50-swing-algo/pkg/cache"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"regularMarketPrice": 2450.5, "chartPreviousClose": 2430.0},
			"timestamp": [1700000000, 1700086400, 1700172800, 1700259200],
			"indicators": {"quote": [{
				"close": [100.0, null, 102.5, 104.0],
				"high":  [101.0, null, 103.0, null],
				"low":   [99.5, null, 101.0, 103.0]
			}]}
		}],
		"error": null
	}
}`

func TestFetchHistoryDropsNullRows(t *testing.T) {
	var gotPath, gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), WithBaseURL(srv.URL))
	quotes, err := c.FetchHistory(context.Background(), "RELIANCE", 60)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}

	if gotPath != "/v8/finance/chart/RELIANCE.NS" {
		t.Errorf("path = %q, want suffixed symbol", gotPath)
	}
	if gotRange != "3mo" || gotInterval != "1d" {
		t.Errorf("query = range %q interval %q", gotRange, gotInterval)
	}

	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3 (null row dropped)", len(quotes))
	}
	if quotes[0].Close != 100.0 || quotes[0].High != 101.0 || quotes[0].Low != 99.5 {
		t.Errorf("quote[0] = %+v", quotes[0])
	}
	// Null high falls back to close.
	if quotes[2].Close != 104.0 || quotes[2].High != 104.0 || quotes[2].Low != 103.0 {
		t.Errorf("quote[2] = %+v", quotes[2])
	}
}

func TestFetchHistoryUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache(0)

	c := NewClient(testLogger(t),
		WithBaseURL(srv.URL),
		WithHistoryCache(mem, time.Minute),
	)

	for i := 0; i < 3; i++ {
		quotes, err := c.FetchHistory(context.Background(), "TCS", 60)
		if err != nil {
			t.Fatalf("FetchHistory #%d: %v", i, err)
		}
		if len(quotes) != 3 {
			t.Fatalf("FetchHistory #%d: got %d quotes", i, len(quotes))
		}
	}
	if hits != 1 {
		t.Errorf("upstream hit %d times, want 1", hits)
	}
}

func TestFetchIndexQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/^NSEI" {
			t.Errorf("index path = %q, want passthrough without suffix", r.URL.Path)
		}
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), WithBaseURL(srv.URL))
	q, err := c.FetchIndexQuote(context.Background(), "^NSEI")
	if err != nil {
		t.Fatalf("FetchIndexQuote: %v", err)
	}

	if q.Price != 2450.5 {
		t.Errorf("price = %v", q.Price)
	}
	// Served values are rounded to 2dp: 20.5/2430*100 = 0.8436... -> 0.84.
	if q.Change != 20.5 {
		t.Errorf("change = %v, want 20.5", q.Change)
	}
	if q.ChangePct != 0.84 {
		t.Errorf("changePct = %v, want 0.84", q.ChangePct)
	}
}

func TestFetchHistoryChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), WithBaseURL(srv.URL))
	if _, err := c.FetchHistory(context.Background(), "BOGUS", 60); err == nil {
		t.Fatal("expected error for chart-level error payload")
	}
}

func TestRangeParam(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{10, "1mo"},
		{30, "2mo"},
		{60, "3mo"},
		{120, "6mo"},
		{250, "1y"},
	}
	for _, tc := range cases {
		if got := rangeParam(tc.days); got != tc.want {
			t.Errorf("rangeParam(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}
