package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/quotes"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/views"
)

// QuoteOptions configures price refreshes.
type QuoteOptions struct {
	// DefaultAPIKey is used when the settings carry no key of their own.
	DefaultAPIKey string
	// Delay is the minimum gap between two provider calls in a batch.
	Delay time.Duration
	// NameDelay is the extra time a provider may spend per ticker resolving
	// a display name.
	NameDelay time.Duration
}

// refreshMargin is added to the sized deadline of a price refresh.
const refreshMargin = 30 * time.Second

// assetService handles assets, holdings and price refreshes.
type assetService struct {
	store    *store.Store
	provider ProviderFactory
	opts     QuoteOptions
	log      *zap.SugaredLogger
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(s *store.Store, provider ProviderFactory, opts QuoteOptions) AssetServicer {
	return &assetService{store: s, provider: provider, opts: opts, log: logger.Named("assets")}
}

// ListAssets returns every asset with derived values.
func (s *assetService) ListAssets() []views.AssetView {
	return views.AssetViews(s.store.Snapshot().Assets)
}

// SaveAsset creates an asset, or edits editingID when it is set.
func (s *assetService) SaveAsset(in reconcile.AssetInput, editingID string) (*views.AssetView, error) {
	a, err := s.store.SaveAsset(in, editingID)
	if err != nil {
		return nil, err
	}
	v := views.NewAssetView(a)
	return &v, nil
}

// DeleteAsset removes an asset.
func (s *assetService) DeleteAsset(id string) error {
	return s.store.DeleteAsset(id)
}

// AddHolding adds a holding to an account asset.
func (s *assetService) AddHolding(assetID string, in reconcile.HoldingInput) (*views.HoldingView, error) {
	h, err := s.store.AddHolding(assetID, in)
	if err != nil {
		return nil, err
	}
	v := views.NewHoldingView(h)
	return &v, nil
}

// UpdateHolding edits a holding wherever it lives.
func (s *assetService) UpdateHolding(holdingID string, in reconcile.HoldingInput) (*views.HoldingView, error) {
	h, err := s.store.UpdateHolding(holdingID, in)
	if err != nil {
		return nil, err
	}
	v := views.NewHoldingView(h)
	return &v, nil
}

// DeleteHolding removes a holding from an account asset.
func (s *assetService) DeleteHolding(assetID, holdingID string) error {
	return s.store.DeleteHolding(assetID, holdingID)
}

func (s *assetService) quoteProvider() (quotes.Provider, error) {
	key := s.store.Settings().AlphaVantageAPIKey
	if key == "" {
		key = s.opts.DefaultAPIKey
	}
	if key == "" || s.provider == nil {
		return nil, apperrors.WithMessage(apperrors.ErrNotConfigured, "Set an Alpha Vantage API key in settings to fetch prices")
	}
	return s.provider(key), nil
}

// RefreshPrices fetches a current price for every held ticker and merges the
// prices into the holdings. It blocks until the batch is done. The batch is
// not bound by the request deadline; it gets its own deadline sized to the
// number of tickers.
func (s *assetService) RefreshPrices(ctx context.Context) (*quotes.RunResult, error) {
	provider, err := s.quoteProvider()
	if err != nil {
		return nil, err
	}
	budget := s.refreshBudget(len(s.store.Tickers()))
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budget)
	defer cancel()
	s.log.Infow("Starting price refresh", "deadline", budget)
	refresher := quotes.NewRefresher(s.store, s.store, quotes.NewBatch(provider, s.opts.Delay))
	return refresher.Run(ctx, func(percent float64) {
		s.log.Debugw("Price refresh progress", "percent", percent)
	})
}

func (s *assetService) refreshBudget(tickers int) time.Duration {
	return time.Duration(tickers)*(s.opts.Delay+s.opts.NameDelay) + refreshMargin
}

// LookupQuote fetches the quote for a single ticker, for prefilling the
// holding form.
func (s *assetService) LookupQuote(ctx context.Context, ticker string) (*quotes.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	provider, err := s.quoteProvider()
	if err != nil {
		return nil, err
	}
	q, err := provider.FetchQuote(ctx, ticker)
	switch {
	case err == nil:
		return q, nil
	case errors.Is(err, quotes.ErrTickerNotFound):
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, fmt.Sprintf("Could not find data for ticker %s", ticker))
	case errors.Is(err, quotes.ErrRateLimited):
		return nil, apperrors.WithMessage(apperrors.ErrQuotesUnavailable, "API rate limit reached. Please wait and try again.")
	default:
		return nil, apperrors.Wrap(apperrors.ErrQuotesUnavailable, err)
	}
}
