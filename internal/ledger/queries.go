package ledger

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"go.uber.org/zap"
)

// Holding is a portfolio lot valued at its current quote.
type Holding struct {
	Lot      domain.PortfolioLot
	Name     string
	Price    decimal.Decimal
	Value    decimal.Decimal
	Invested decimal.Decimal
	// ProfitLoss is Value - Invested; ProfitLossPercent is relative to Invested.
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

// Summary is the dashboard view of the account.
type Summary struct {
	User           domain.User
	GoldPrice      decimal.Decimal
	GoldValue      decimal.Decimal
	PortfolioValue decimal.Decimal
	Recent         []domain.Transaction
}

// Account returns the current user record.
func (s *Service) Account(ctx context.Context) (domain.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "load user")
	}
	return user, nil
}

// RecentTransactions returns up to n transactions, newest first. n <= 0 returns the whole log.
func (s *Service) RecentTransactions(ctx context.Context, n int) ([]domain.Transaction, error) {
	log, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load transactions")
	}
	if n > 0 && len(log) > n {
		log = log[:n]
	}
	out := make([]domain.Transaction, len(log))
	copy(out, log)
	return out, nil
}

// Portfolio returns the stock lots in order of first purchase.
func (s *Service) Portfolio(ctx context.Context) (domain.Portfolio, error) {
	portfolio, err := s.store.Portfolio(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load portfolio")
	}
	return portfolio, nil
}

// Holdings values every lot at its quote. Lots without a quote are skipped.
func (s *Service) Holdings(ctx context.Context) ([]Holding, error) {
	portfolio, err := s.Portfolio(ctx)
	if err != nil {
		return nil, err
	}

	quotes, err := s.market.Quotes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get quotes")
	}
	bySymbol := make(map[string]domain.StockQuote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	hundred := decimal.NewFromInt(100)
	out := make([]Holding, 0, len(portfolio))
	for _, lot := range portfolio {
		quote, ok := bySymbol[lot.Symbol]
		if !ok {
			s.logger.Warn("no quote for held symbol", zap.String("symbol", lot.Symbol))
			continue
		}

		value := lot.Value(quote.Price)
		invested := lot.Value(lot.AvgPrice)
		pnl := value.Sub(invested)
		pnlPercent := decimal.Zero
		if invested.IsPositive() {
			pnlPercent = pnl.Div(invested).Mul(hundred)
		}

		out = append(out, Holding{
			Lot:               lot,
			Name:              quote.Name,
			Price:             quote.Price,
			Value:             value,
			Invested:          invested,
			ProfitLoss:        pnl,
			ProfitLossPercent: pnlPercent,
		})
	}

	return out, nil
}

// PortfolioValue is the sum of quote price × quantity over every quoted lot.
func (s *Service) PortfolioValue(ctx context.Context) (decimal.Decimal, error) {
	holdings, err := s.Holdings(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total, nil
}

// Summary collects the dashboard figures.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	user, err := s.Account(ctx)
	if err != nil {
		return Summary{}, err
	}
	gold, err := s.market.GoldPrice(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "get gold price")
	}
	value, err := s.PortfolioValue(ctx)
	if err != nil {
		return Summary{}, err
	}
	recent, err := s.RecentTransactions(ctx, DashboardTransactions)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		User:           user,
		GoldPrice:      gold.PricePerGram,
		GoldValue:      user.GoldHolding.Mul(gold.PricePerGram),
		PortfolioValue: value,
		Recent:         recent,
	}, nil
}

// Quotes returns the tradable symbols.
func (s *Service) Quotes(ctx context.Context) ([]domain.StockQuote, error) {
	quotes, err := s.market.Quotes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get quotes")
	}
	return quotes, nil
}

// GoldPrice returns the current gold rate.
func (s *Service) GoldPrice(ctx context.Context) (domain.GoldPrice, error) {
	price, err := s.market.GoldPrice(ctx)
	if err != nil {
		return domain.GoldPrice{}, errors.Wrap(err, "get gold price")
	}
	return price, nil
}
