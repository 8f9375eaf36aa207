package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrLotNotFound is returned when selling a symbol that has no lot.
var ErrLotNotFound = errors.New("no lot for symbol")

// ErrLotTooSmall is returned when selling more than the lot holds.
var ErrLotTooSmall = errors.New("lot quantity is smaller than requested")

// PortfolioLot is the aggregated position in one stock symbol.
type PortfolioLot struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// NewPortfolioLot constructs a lot opened by a first purchase.
func NewPortfolioLot(symbol string, quantity, price decimal.Decimal) (PortfolioLot, error) {
	if strings.TrimSpace(symbol) == "" {
		return PortfolioLot{}, errors.New("lot symbol is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return PortfolioLot{}, errors.New("lot quantity must be greater than zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return PortfolioLot{}, errors.New("lot price must be greater than zero")
	}

	return PortfolioLot{Symbol: symbol, Quantity: quantity, AvgPrice: price}, nil
}

// Add merges a purchase of quantity at price into the lot and returns the merged lot.
// The new average is the volume weighted average of the old and added notionals.
func (l PortfolioLot) Add(quantity, price decimal.Decimal) PortfolioLot {
	total := l.Quantity.Add(quantity)
	if total.LessThanOrEqual(decimal.Zero) {
		return l
	}

	existingNotional := l.AvgPrice.Mul(l.Quantity)
	addedNotional := price.Mul(quantity)

	return PortfolioLot{
		Symbol:   l.Symbol,
		Quantity: total,
		AvgPrice: existingNotional.Add(addedNotional).Div(total),
	}
}

// Value returns the market value of the lot at price.
func (l PortfolioLot) Value(price decimal.Decimal) decimal.Decimal {
	return l.Quantity.Mul(price)
}

// Portfolio is the set of lots keyed by symbol, in order of first purchase.
type Portfolio []PortfolioLot

// Find returns the lot for symbol.
func (p Portfolio) Find(symbol string) (PortfolioLot, bool) {
	for _, lot := range p {
		if lot.Symbol == symbol {
			return lot, true
		}
	}
	return PortfolioLot{}, false
}

// Held returns the quantity held for symbol, zero when there is no lot.
func (p Portfolio) Held(symbol string) decimal.Decimal {
	lot, ok := p.Find(symbol)
	if !ok {
		return decimal.Zero
	}
	return lot.Quantity
}

// Buy returns a new portfolio with the purchase applied. The receiver is not modified.
func (p Portfolio) Buy(symbol string, quantity, price decimal.Decimal) (Portfolio, error) {
	out := p.clone()
	for i, lot := range out {
		if lot.Symbol == symbol {
			out[i] = lot.Add(quantity, price)
			return out, nil
		}
	}

	lot, err := NewPortfolioLot(symbol, quantity, price)
	if err != nil {
		return nil, err
	}

	return append(out, lot), nil
}

// Sell returns a new portfolio with quantity removed from the symbol's lot.
// A lot that reaches exactly zero is removed. The average price is left unchanged.
func (p Portfolio) Sell(symbol string, quantity decimal.Decimal) (Portfolio, error) {
	out := p.clone()
	for i, lot := range out {
		if lot.Symbol != symbol {
			continue
		}
		if lot.Quantity.LessThan(quantity) {
			return nil, errors.Wrapf(ErrLotTooSmall, "%s: have %s need %s", symbol, lot.Quantity, quantity)
		}

		remaining := lot.Quantity.Sub(quantity)
		if remaining.IsZero() {
			return append(out[:i], out[i+1:]...), nil
		}
		out[i].Quantity = remaining
		return out, nil
	}

	return nil, errors.Wrap(ErrLotNotFound, symbol)
}

func (p Portfolio) clone() Portfolio {
	out := make(Portfolio, len(p))
	copy(out, p)
	return out
}
