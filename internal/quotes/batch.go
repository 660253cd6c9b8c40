package quotes

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/berling9700/budget-tracker/internal/logger"
)

// ProgressFunc receives the completed share of a batch, 0 to 100.
type ProgressFunc func(percent float64)

// Batch fetches many tickers one at a time, waiting delay between calls.
type Batch struct {
	provider Provider
	limiter  *rate.Limiter
	log      *zap.SugaredLogger
}

// NewBatch creates a batch fetcher. A zero delay disables the wait.
func NewBatch(provider Provider, delay time.Duration) *Batch {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Batch{
		provider: provider,
		limiter:  rate.NewLimiter(limit, 1),
		log:      logger.Named("quotes"),
	}
}

// FetchMultiple looks up each distinct ticker in order. Results are keyed by
// upper-case ticker. A failing ticker is recorded and skipped; progress is
// reported after every ticker. Cancelling ctx stops the batch: every ticker
// not yet fetched is recorded as failed and progress is reported as 100.
func (b *Batch) FetchMultiple(ctx context.Context, tickers []string, onProgress ProgressFunc) (map[string]Quote, []FetchError) {
	unique := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}

	results := make(map[string]Quote, len(unique))
	var fetchErrors []FetchError
	total := len(unique)

	for i, ticker := range unique {
		if err := b.limiter.Wait(ctx); err != nil {
			b.log.Warnw("Quote batch stopped", "provider", b.provider.Name(), "remaining", total-i, "error", err)
			for _, rest := range unique[i:] {
				fetchErrors = append(fetchErrors, FetchError{Ticker: rest, Err: err})
			}
			if onProgress != nil {
				onProgress(100)
			}
			break
		}

		q, err := b.provider.FetchQuote(ctx, ticker)
		if err != nil {
			b.log.Warnw("Quote fetch failed, continuing", "provider", b.provider.Name(), "ticker", ticker, "error", err)
			fetchErrors = append(fetchErrors, FetchError{Ticker: ticker, Err: err})
		} else if q != nil {
			results[ticker] = *q
		}

		if onProgress != nil {
			onProgress(float64(i+1) / float64(total) * 100)
		}
	}
	return results, fetchErrors
}
