package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/berling9700/budget-tracker/internal/logger"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// unknownName is used when the symbol search yields nothing.
const unknownName = "N/A"

type symbolSearchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
	Note        string              `json:"Note"`
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
}

// AlphaVantage fetches quotes from the Alpha Vantage query API. Each lookup
// is a symbol search for the display name followed, after nameDelay, by a
// global quote for the price.
type AlphaVantage struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	nameDelay  time.Duration
	log        *zap.SugaredLogger
}

// NewAlphaVantage creates an Alpha Vantage provider.
func NewAlphaVantage(httpClient *http.Client, apiKey string, nameDelay time.Duration) *AlphaVantage {
	return &AlphaVantage{
		httpClient: httpClient,
		baseURL:    alphaVantageBaseURL,
		apiKey:     apiKey,
		nameDelay:  nameDelay,
		log:        logger.Named("quotes"),
	}
}

// Name returns the provider's display name.
func (p *AlphaVantage) Name() string { return "Alpha Vantage" }

// FetchQuote implements Provider. A failed name search is logged and the
// name falls back to "N/A"; only the price lookup can fail the call.
func (p *AlphaVantage) FetchQuote(ctx context.Context, ticker string) (*Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, ErrTickerNotFound
	}
	if p.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	name, err := p.searchName(ctx, ticker)
	if err != nil {
		p.log.Warnw("Symbol search failed", "ticker", ticker, "error", err)
		name = unknownName
	}

	if p.nameDelay > 0 {
		timer := time.NewTimer(p.nameDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var resp globalQuoteResponse
	if err := p.get(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {ticker}}, &resp); err != nil {
		return nil, err
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, resp.Note)
	}
	raw, ok := resp.GlobalQuote["05. price"]
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: ticker symbol '%s' not found", ErrTickerNotFound, ticker)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", raw, err)
	}

	symbol := resp.GlobalQuote["01. symbol"]
	if symbol == "" {
		symbol = ticker
	}
	return &Quote{Symbol: symbol, Name: name, Price: price}, nil
}

// searchName returns the display name of the exact-symbol match, else the
// first match.
func (p *AlphaVantage) searchName(ctx context.Context, ticker string) (string, error) {
	var resp symbolSearchResponse
	if err := p.get(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {ticker}}, &resp); err != nil {
		return "", err
	}
	if len(resp.BestMatches) == 0 {
		if resp.Note != "" {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, resp.Note)
		}
		return unknownName, nil
	}
	best := resp.BestMatches[0]
	for _, m := range resp.BestMatches {
		if m["1. symbol"] == ticker {
			best = m
			break
		}
	}
	if name := best["2. name"]; name != "" {
		return name, nil
	}
	return unknownName, nil
}

func (p *AlphaVantage) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
