package quotes

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
)

// TickerSource lists the tickers that should be refreshed.
type TickerSource interface {
	Tickers() []string
}

// QuoteSink applies fetched prices, keyed by upper-case ticker, and reports
// how many holdings changed.
type QuoteSink interface {
	ApplyQuotes(prices map[string]float64) (int, error)
}

// RunResult contains the outcome of a refresh.
type RunResult struct {
	TickersFound    int           `json:"tickersFound"`
	QuotesFetched   int           `json:"quotesFetched"`
	HoldingsUpdated int           `json:"holdingsUpdated"`
	Failed          []string      `json:"failed"`
	Errors          []FetchError  `json:"-"`
	Duration        time.Duration `json:"duration"`
}

// Refresher refreshes the current price of every held ticker.
type Refresher struct {
	source TickerSource
	sink   QuoteSink
	batch  *Batch
	log    *zap.SugaredLogger
}

// NewRefresher creates a Refresher.
func NewRefresher(source TickerSource, sink QuoteSink, batch *Batch) *Refresher {
	return &Refresher{source: source, sink: sink, batch: batch, log: logger.Named("quotes")}
}

// Run executes a single refresh: collect tickers, fetch quotes, apply the
// prices. Prices are merged by ticker into whatever holdings exist when the
// batch finishes.
func (r *Refresher) Run(ctx context.Context, onProgress ProgressFunc) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{Failed: []string{}}

	tickers := r.source.Tickers()
	result.TickersFound = len(tickers)
	if len(tickers) == 0 {
		return nil, apperrors.ErrNoTickers
	}

	r.log.Infow("Refreshing prices", "tickers", len(tickers))
	quotes, fetchErrors := r.batch.FetchMultiple(ctx, tickers, onProgress)
	result.Errors = fetchErrors
	for _, fe := range fetchErrors {
		result.Failed = append(result.Failed, fe.Ticker)
	}
	result.QuotesFetched = len(quotes)

	if len(quotes) == 0 {
		r.log.Warnw("No prices fetched", "failed", len(fetchErrors))
		return nil, apperrors.WithMessage(apperrors.ErrQuotesUnavailable, "Could not fetch any new price data.")
	}

	prices := make(map[string]float64, len(quotes))
	for ticker, q := range quotes {
		prices[ticker] = q.Price
	}
	updated, err := r.sink.ApplyQuotes(prices)
	if err != nil {
		return nil, err
	}
	result.HoldingsUpdated = updated
	result.Duration = time.Since(start)

	r.log.Infow("Prices refreshed",
		"quotes", result.QuotesFetched,
		"holdings_updated", result.HoldingsUpdated,
		"failed", len(result.Failed),
		"duration", result.Duration,
	)
	return result, nil
}
