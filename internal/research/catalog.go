package research

import (
	"context"
	"strings"

	"stockresearch/internal/errors"
	"stockresearch/internal/model"
)

// SearchLimit caps the number of suggestions returned by a search.
const SearchLimit = 10

// Catalog is the reference list of researchable tickers.
type Catalog interface {
	// Lookup finds a ticker by symbol, ignoring case. It returns
	// errors.ErrUnknownTicker when the symbol is not listed.
	Lookup(ctx context.Context, symbol string) (model.Ticker, error)
	// Search returns up to limit tickers whose symbol or name contains query,
	// ignoring case. An empty query matches nothing.
	Search(ctx context.Context, query string, limit int) ([]model.Ticker, error)
}

// DefaultTickers is the built-in ticker table.
var DefaultTickers = []model.Ticker{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc. (Class A)"},
	{Symbol: "TSLA", Name: "Tesla, Inc."},
	{Symbol: "META", Name: "Meta Platforms, Inc."},
	{Symbol: "NFLX", Name: "Netflix, Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "ORCL", Name: "Oracle Corporation"},
	{Symbol: "IBM", Name: "International Business Machines Corporation"},
	{Symbol: "INTC", Name: "Intel Corporation"},
	{Symbol: "AMD", Name: "Advanced Micro Devices, Inc."},
	{Symbol: "BABA", Name: "Alibaba Group Holding Limited"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co."},
	{Symbol: "BAC", Name: "Bank of America Corporation"},
}

// StaticCatalog serves a fixed, ordered ticker table from memory.
type StaticCatalog struct {
	tickers []model.Ticker
}

var _ Catalog = (*StaticCatalog)(nil)

// NewStaticCatalog builds a catalog over tickers, or DefaultTickers when nil.
func NewStaticCatalog(tickers []model.Ticker) *StaticCatalog {
	if tickers == nil {
		tickers = DefaultTickers
	}
	return &StaticCatalog{tickers: tickers}
}

func (c *StaticCatalog) Lookup(_ context.Context, symbol string) (model.Ticker, error) {
	for _, t := range c.tickers {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, nil
		}
	}
	return model.Ticker{}, errors.ErrUnknownTicker
}

func (c *StaticCatalog) Search(_ context.Context, query string, limit int) ([]model.Ticker, error) {
	q := strings.ToLower(query)
	matches := make([]model.Ticker, 0)
	if q == "" {
		return matches, nil
	}
	for _, t := range c.tickers {
		if len(matches) == limit {
			break
		}
		if strings.Contains(strings.ToLower(t.Symbol), q) || strings.Contains(strings.ToLower(t.Name), q) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}
