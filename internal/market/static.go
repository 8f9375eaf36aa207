// Package market serves the reference prices the ledger trades at.
package market

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
)

// ErrUnknownSymbol is returned for a symbol that has no quote.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Static is a fixed price table. Trades never move its prices.
type Static struct {
	goldPrice decimal.Decimal
	quotes    []domain.StockQuote
	now       func() time.Time
}

// Option configures a Static market.
type Option func(*Static)

// WithGoldPrice overrides the gold price per gram.
func WithGoldPrice(price decimal.Decimal) Option {
	return func(s *Static) {
		s.goldPrice = price
	}
}

// WithQuotes replaces the quote list.
func WithQuotes(quotes []domain.StockQuote) Option {
	return func(s *Static) {
		s.quotes = quotes
	}
}

// WithClock sets the clock stamped on gold prices.
func WithClock(now func() time.Time) Option {
	return func(s *Static) {
		s.now = now
	}
}

// NewStatic creates a market with the default reference data and applies opts.
func NewStatic(opts ...Option) (*Static, error) {
	s := &Static{
		goldPrice: domain.DefaultGoldPricePerGram,
		quotes:    domain.DefaultQuotes(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.goldPrice.IsPositive() {
		return nil, errors.Errorf("gold price must be positive, got %s", s.goldPrice)
	}

	seen := make(map[string]struct{}, len(s.quotes))
	quotes := make([]domain.StockQuote, 0, len(s.quotes))
	for _, q := range s.quotes {
		q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
		if q.Symbol == "" {
			return nil, errors.New("quote symbol is required")
		}
		if !q.Price.IsPositive() {
			return nil, errors.Errorf("price of %s must be positive, got %s", q.Symbol, q.Price)
		}
		if _, dup := seen[q.Symbol]; dup {
			return nil, errors.Errorf("duplicate quote for %s", q.Symbol)
		}
		seen[q.Symbol] = struct{}{}
		quotes = append(quotes, q)
	}
	s.quotes = quotes

	return s, nil
}

// GoldPrice returns the current gold rate.
func (s *Static) GoldPrice(ctx context.Context) (domain.GoldPrice, error) {
	return domain.GoldPrice{PricePerGram: s.goldPrice, LastUpdated: s.now()}, nil
}

// Quote returns the quote for symbol, matched case-insensitively.
func (s *Static) Quote(ctx context.Context, symbol string) (domain.StockQuote, error) {
	want := strings.ToUpper(strings.TrimSpace(symbol))
	for _, q := range s.quotes {
		if q.Symbol == want {
			return q, nil
		}
	}
	return domain.StockQuote{}, errors.Wrap(ErrUnknownSymbol, symbol)
}

// Quotes returns every quote in listing order.
func (s *Static) Quotes(ctx context.Context) ([]domain.StockQuote, error) {
	out := make([]domain.StockQuote, len(s.quotes))
	copy(out, s.quotes)
	return out, nil
}

// Search returns the quotes whose symbol or name contains term, ignoring case.
// An empty term matches everything.
func (s *Static) Search(term string) []domain.StockQuote {
	return Filter(s.quotes, term)
}

// Filter is Search over an arbitrary quote list.
func Filter(quotes []domain.StockQuote, term string) []domain.StockQuote {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.StockQuote, 0, len(quotes))
	for _, q := range quotes {
		if term == "" ||
			strings.Contains(strings.ToLower(q.Symbol), term) ||
			strings.Contains(strings.ToLower(q.Name), term) {
			out = append(out, q)
		}
	}
	return out
}
