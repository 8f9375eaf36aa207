package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/market"
)

// TradeGold buys or sells grams of gold at the current gold price.
func (s *Service) TradeGold(ctx context.Context, side domain.Side, grams decimal.Decimal) (domain.Transaction, error) {
	switch side {
	case domain.SideBuy:
		return s.BuyGold(ctx, grams)
	case domain.SideSell:
		return s.SellGold(ctx, grams)
	default:
		return domain.Transaction{}, errors.Errorf("unknown trade side: %s", side)
	}
}

// BuyGold debits grams × gold price and adds grams to the gold holding.
func (s *Service) BuyGold(ctx context.Context, grams decimal.Decimal) (domain.Transaction, error) {
	const op = "buy_gold"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !grams.IsPositive() {
		return domain.Transaction{}, s.rejected(op, reject(ReasonInvalidQuantity, "Please enter a valid quantity"))
	}

	price, err := s.market.GoldPrice(ctx)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "get gold price")
	}
	amount := grams.Mul(price.PricePerGram)

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	user, err := debit(current.user, amount)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}
	user.GoldHolding = user.GoldHolding.Add(grams)

	return s.record(ctx, op, current, outcome{
		user: user,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeGold,
			Amount:      amount,
			Description: fmt.Sprintf("Digital Gold Purchase - %sg", grams),
		},
	})
}

// SellGold credits grams × gold price and removes grams from the gold holding.
func (s *Service) SellGold(ctx context.Context, grams decimal.Decimal) (domain.Transaction, error) {
	const op = "sell_gold"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !grams.IsPositive() {
		return domain.Transaction{}, s.rejected(op, reject(ReasonInvalidQuantity, "Please enter a valid quantity"))
	}

	price, err := s.market.GoldPrice(ctx)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "get gold price")
	}
	amount := grams.Mul(price.PricePerGram)

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	if !current.user.CanSellGold(grams) {
		return domain.Transaction{}, s.rejected(op,
			reject(ReasonInsufficientHoldings, "You only have %sg of gold", current.user.GoldHolding))
	}

	user := credit(current.user, amount)
	user.GoldHolding = user.GoldHolding.Sub(grams)

	return s.record(ctx, op, current, outcome{
		user: user,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeGold,
			Amount:      amount,
			Description: fmt.Sprintf("Digital Gold Sale - %sg", grams),
		},
	})
}

// TradeStock buys or sells whole shares at the quoted price.
func (s *Service) TradeStock(ctx context.Context, side domain.Side, symbol string, quantity decimal.Decimal) (domain.Transaction, error) {
	switch side {
	case domain.SideBuy:
		return s.BuyStock(ctx, symbol, quantity)
	case domain.SideSell:
		return s.SellStock(ctx, symbol, quantity)
	default:
		return domain.Transaction{}, errors.Errorf("unknown trade side: %s", side)
	}
}

// BuyStock debits quantity × price and merges the shares into the symbol's lot.
func (s *Service) BuyStock(ctx context.Context, symbol string, quantity decimal.Decimal) (domain.Transaction, error) {
	const op = "buy_stock"

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.validateStockOrder(ctx, symbol, quantity)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}
	amount := quantity.Mul(quote.Price)

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	user, err := debit(current.user, amount)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}

	portfolio, err := current.portfolio.Buy(quote.Symbol, quantity, quote.Price)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "apply purchase to portfolio")
	}

	return s.record(ctx, op, current, outcome{
		user:      user,
		portfolio: &portfolio,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeStock,
			Amount:      amount,
			Description: fmt.Sprintf("Bought %s %s @ %s", quantity, quote.Symbol, domain.FormatAmount(quote.Price, s.currency)),
		},
	})
}

// SellStock credits quantity × price and decrements the symbol's lot,
// removing it when nothing is left.
func (s *Service) SellStock(ctx context.Context, symbol string, quantity decimal.Decimal) (domain.Transaction, error) {
	const op = "sell_stock"

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.validateStockOrder(ctx, symbol, quantity)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}
	amount := quantity.Mul(quote.Price)

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	if current.portfolio.Held(quote.Symbol).LessThan(quantity) {
		return domain.Transaction{}, s.rejected(op,
			reject(ReasonInsufficientHoldings, "You don't have enough %s stocks", quote.Symbol))
	}

	portfolio, err := current.portfolio.Sell(quote.Symbol, quantity)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "apply sale to portfolio")
	}

	return s.record(ctx, op, current, outcome{
		user:      credit(current.user, amount),
		portfolio: &portfolio,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeStock,
			Amount:      amount,
			Description: fmt.Sprintf("Sold %s %s @ %s", quantity, quote.Symbol, domain.FormatAmount(quote.Price, s.currency)),
		},
	})
}

func (s *Service) validateStockOrder(ctx context.Context, symbol string, quantity decimal.Decimal) (domain.StockQuote, error) {
	if strings.TrimSpace(symbol) == "" {
		return domain.StockQuote{}, reject(ReasonUnknownSymbol, "Please select a stock")
	}

	quote, err := s.market.Quote(ctx, symbol)
	if err != nil {
		if errors.Is(err, market.ErrUnknownSymbol) {
			return domain.StockQuote{}, reject(ReasonUnknownSymbol, "Unknown stock %s", strings.ToUpper(symbol))
		}
		return domain.StockQuote{}, errors.Wrap(err, "get quote")
	}

	if !quantity.IsPositive() {
		return domain.StockQuote{}, reject(ReasonInvalidQuantity, "Please enter a valid quantity (whole number)")
	}
	if !quantity.Equal(quantity.Truncate(0)) {
		return domain.StockQuote{}, reject(ReasonFractionalQuantity, "Please enter a valid quantity (whole number)")
	}

	return quote, nil
}
