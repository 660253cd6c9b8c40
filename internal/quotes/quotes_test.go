package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/testutil"
)

func init() {
	logger.Init("test")
}

// newAlphaVantageMock serves SYMBOL_SEARCH and GLOBAL_QUOTE. prices maps
// ticker to the price string returned; names maps ticker to display name.
func newAlphaVantageMock(t *testing.T, prices, names map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" {
			t.Errorf("expected api key on request, got %q", q.Get("apikey"))
		}
		w.Header().Set("Content-Type", "application/json")

		switch q.Get("function") {
		case "SYMBOL_SEARCH":
			ticker := q.Get("keywords")
			matches := []map[string]string{}
			if name, ok := names[ticker]; ok {
				matches = append(matches,
					map[string]string{"1. symbol": ticker + ".LON", "2. name": "Wrong Listing"},
					map[string]string{"1. symbol": ticker, "2. name": name},
				)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"bestMatches": matches})
		case "GLOBAL_QUOTE":
			ticker := q.Get("symbol")
			if ticker == "LIMIT" {
				_ = json.NewEncoder(w).Encode(map[string]any{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."})
				return
			}
			price, ok := prices[ticker]
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]any{"Global Quote": map[string]string{}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"Global Quote": map[string]string{
				"01. symbol": ticker,
				"05. price":  price,
			}})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestProvider(srv *httptest.Server) *AlphaVantage {
	p := NewAlphaVantage(srv.Client(), "test-key", 0)
	p.baseURL = srv.URL
	return p
}

func TestAlphaVantage_FetchQuote(t *testing.T) {
	srv, calls := newAlphaVantageMock(t, map[string]string{"AAPL": "189.9800"}, map[string]string{"AAPL": "Apple Inc"})
	p := newTestProvider(srv)

	q, err := p.FetchQuote(context.Background(), "aapl")
	testutil.AssertNoError(t, err)
	if q.Symbol != "AAPL" || q.Name != "Apple Inc" || q.Price != 189.98 {
		t.Errorf("unexpected quote %+v", q)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected search and quote calls, got %d", got)
	}
}

func TestAlphaVantage_NameFallback(t *testing.T) {
	srv, _ := newAlphaVantageMock(t, map[string]string{"XYZ": "1.5"}, nil)

	q, err := newTestProvider(srv).FetchQuote(context.Background(), "XYZ")
	testutil.AssertNoError(t, err)
	if q.Name != "N/A" {
		t.Errorf("expected N/A name, got %q", q.Name)
	}
}

func TestAlphaVantage_Errors(t *testing.T) {
	srv, _ := newAlphaVantageMock(t, nil, nil)
	p := newTestProvider(srv)

	_, err := p.FetchQuote(context.Background(), "NOPE")
	if !errors.Is(err, ErrTickerNotFound) {
		t.Errorf("expected ErrTickerNotFound, got %v", err)
	}

	_, err = p.FetchQuote(context.Background(), "LIMIT")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}

	noKey := NewAlphaVantage(srv.Client(), "", 0)
	_, err = noKey.FetchQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestAlphaVantage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv).FetchQuote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
}

// stubProvider returns canned quotes and records call order.
type stubProvider struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) FetchQuote(_ context.Context, ticker string) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ticker)
	price, ok := s.prices[ticker]
	if !ok {
		return nil, ErrTickerNotFound
	}
	return &Quote{Symbol: ticker, Name: ticker, Price: price}, nil
}

func TestBatch_FetchMultiple(t *testing.T) {
	stub := &stubProvider{prices: map[string]float64{"AAPL": 100, "MSFT": 300}}
	b := NewBatch(stub, 0)

	var progress []float64
	results, fetchErrors := b.FetchMultiple(context.Background(), []string{"aapl", "BAD", "AAPL", "msft"}, func(p float64) {
		progress = append(progress, p)
	})

	if len(stub.calls) != 3 {
		t.Errorf("expected duplicate tickers fetched once, got calls %v", stub.calls)
	}
	if len(results) != 2 || results["AAPL"].Price != 100 || results["MSFT"].Price != 300 {
		t.Errorf("unexpected results %+v", results)
	}
	if len(fetchErrors) != 1 || fetchErrors[0].Ticker != "BAD" {
		t.Errorf("expected BAD to fail without aborting, got %+v", fetchErrors)
	}
	if len(progress) != 3 || progress[2] != 100 {
		t.Errorf("expected progress after every ticker ending at 100, got %v", progress)
	}
	testutil.AssertFloat(t, "first progress", progress[0], 100.0/3)
}

func TestBatch_Cancelled(t *testing.T) {
	stub := &stubProvider{prices: map[string]float64{"AAPL": 1}}
	b := NewBatch(stub, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, fetchErrors := b.FetchMultiple(ctx, []string{"AAPL", "MSFT"}, nil)
	if len(results) != 0 || len(fetchErrors) != 2 {
		t.Errorf("expected cancelled batch to fail every ticker, got %v / %v", results, fetchErrors)
	}
}

// cancellingProvider cancels the batch context after a number of calls.
type cancellingProvider struct {
	stubProvider
	after  int
	cancel context.CancelFunc
}

func (c *cancellingProvider) FetchQuote(ctx context.Context, ticker string) (*Quote, error) {
	q, err := c.stubProvider.FetchQuote(ctx, ticker)
	if len(c.calls) == c.after {
		c.cancel()
	}
	return q, err
}

func TestBatch_StoppedMidwayReportsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider := &cancellingProvider{
		stubProvider: stubProvider{prices: map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6}},
		after:        3,
		cancel:       cancel,
	}
	b := NewBatch(provider, 0)

	var progress []float64
	results, fetchErrors := b.FetchMultiple(ctx, []string{"A", "B", "C", "D", "E", "F"}, func(p float64) {
		progress = append(progress, p)
	})

	if len(results) != 3 {
		t.Errorf("expected 3 quotes before the stop, got %v", results)
	}
	if len(results)+len(fetchErrors) != 6 {
		t.Errorf("every ticker should be fetched or failed, got %d + %d", len(results), len(fetchErrors))
	}
	failed := make([]string, 0, len(fetchErrors))
	for _, fe := range fetchErrors {
		failed = append(failed, fe.Ticker)
	}
	if strings.Join(failed, ",") != "D,E,F" {
		t.Errorf("expected D,E,F to be reported, got %v", failed)
	}
	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Errorf("expected final progress 100, got %v", progress)
	}
}

type fakeHoldings struct {
	tickers []string
	applied map[string]float64
}

func (f *fakeHoldings) Tickers() []string { return f.tickers }

func (f *fakeHoldings) ApplyQuotes(prices map[string]float64) (int, error) {
	f.applied = prices
	return len(prices), nil
}

func TestRefresher_Run(t *testing.T) {
	holdings := &fakeHoldings{tickers: []string{"AAPL", "BAD"}}
	stub := &stubProvider{prices: map[string]float64{"AAPL": 123}}
	r := NewRefresher(holdings, holdings, NewBatch(stub, 0))

	result, err := r.Run(context.Background(), nil)
	testutil.AssertNoError(t, err)

	if result.TickersFound != 2 || result.QuotesFetched != 1 || result.HoldingsUpdated != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "BAD" {
		t.Errorf("expected BAD reported, got %v", result.Failed)
	}
	if holdings.applied["AAPL"] != 123 {
		t.Errorf("expected AAPL price applied, got %v", holdings.applied)
	}
}

func TestRefresher_NoTickers(t *testing.T) {
	holdings := &fakeHoldings{}
	r := NewRefresher(holdings, holdings, NewBatch(&stubProvider{}, 0))

	_, err := r.Run(context.Background(), nil)
	testutil.AssertAppError(t, err, "NO_TICKERS")
}

func TestRefresher_NothingFetched(t *testing.T) {
	holdings := &fakeHoldings{tickers: []string{"BAD"}}
	r := NewRefresher(holdings, holdings, NewBatch(&stubProvider{}, 0))

	_, err := r.Run(context.Background(), nil)
	testutil.AssertAppError(t, err, "QUOTES_UNAVAILABLE")
	if holdings.applied != nil {
		t.Error("nothing should be applied when no quotes were fetched")
	}
}
