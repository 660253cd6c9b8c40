// Package quotes fetches stock prices for holdings. A Provider looks up one
// ticker; Batch serializes lookups under a fixed rate limit and reports
// progress; Refresher merges a batch's prices back into the store.
package quotes

import (
	"context"
	"errors"
	"fmt"
)

// Quote is a fetched price for a ticker.
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// FetchError represents a failed lookup for one ticker.
type FetchError struct {
	Ticker string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch quote for %s: %v", e.Ticker, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Provider fetches the current quote of a single ticker.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// FetchQuote returns the quote for ticker or an error. A failure for one
	// ticker says nothing about others.
	FetchQuote(ctx context.Context, ticker string) (*Quote, error)
}

// Provider errors.
var (
	ErrRateLimited    = errors.New("quote provider rate limit reached")
	ErrTickerNotFound = errors.New("ticker not found")
	ErrNoAPIKey       = errors.New("quote provider API key is not set")
)
