package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoldPricePerGram is the reference gold price used when none is configured.
var DefaultGoldPricePerGram = decimal.NewFromInt(6500)

// StockQuote is static reference data for a tradable symbol.
// Trades never move the price.
type StockQuote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// IsUp reports whether the quote moved up.
func (q StockQuote) IsUp() bool {
	return !q.Change.IsNegative()
}

// GoldPrice is the current gold rate.
type GoldPrice struct {
	PricePerGram decimal.Decimal `json:"pricePerGram"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// DefaultQuotes returns the tradable symbols of the simulator.
func DefaultQuotes() []StockQuote {
	return []StockQuote{
		newQuote("TCS", "Tata Consultancy Services", "3850.25", "45.30", "1.19"),
		newQuote("INFY", "Infosys Limited", "1650.75", "-12.50", "-0.75"),
		newQuote("RELIANCE", "Reliance Industries", "2450.50", "28.75", "1.19"),
		newQuote("HDFC", "HDFC Bank", "1680.00", "15.25", "0.92"),
		newQuote("WIPRO", "Wipro Limited", "485.30", "-5.20", "-1.06"),
		newQuote("ITC", "ITC Limited", "425.80", "8.90", "2.14"),
	}
}

func newQuote(symbol, name, price, change, changePercent string) StockQuote {
	return StockQuote{
		Symbol:        symbol,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Change:        decimal.RequireFromString(change),
		ChangePercent: decimal.RequireFromString(changePercent),
	}
}
