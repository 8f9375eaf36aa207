// Package ledger implements the money-moving operations of the bank simulator.
// Every operation validates against the stored state, computes the new state on
// copies and writes user, portfolio and transaction log in one commit.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/storage/records"
	"github.com/vadiminshakov/minibank/pkg/idgen"
	"go.uber.org/zap"
)

// DashboardTransactions is how many transactions the account summary carries.
const DashboardTransactions = 5

// Store is the record store the ledger reads and commits to.
type Store interface {
	User(ctx context.Context) (domain.User, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Portfolio(ctx context.Context) (domain.Portfolio, error)
	Commit(ctx context.Context, change records.Change) error
}

// Market provides reference prices.
type Market interface {
	GoldPrice(ctx context.Context) (domain.GoldPrice, error)
	Quote(ctx context.Context, symbol string) (domain.StockQuote, error)
	Quotes(ctx context.Context) ([]domain.StockQuote, error)
}

// IDGenerator mints transaction ids. Observe is fed every id already in the log.
type IDGenerator interface {
	Next() string
	Observe(id string)
}

// Service executes ledger operations one at a time.
type Service struct {
	mu       sync.Mutex
	store    Store
	market   Market
	ids      IDGenerator
	now      func() time.Time
	currency string
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to date transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the transaction id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) {
		s.ids = ids
	}
}

// WithCurrency sets the currency prices are rendered in inside descriptions.
func WithCurrency(code string) Option {
	return func(s *Service) {
		s.currency = code
	}
}

// NewService creates a ledger service.
func NewService(store Store, market Market, logger *zap.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		return nil, errors.New("record store is required for ledger")
	}
	if market == nil {
		return nil, errors.New("market is required for ledger")
	}

	s := &Service{
		store:    store,
		market:   market,
		now:      time.Now,
		currency: domain.DefaultCurrency,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = idgen.New(s.now)
	}

	return s, nil
}

// state is one consistent read of every record.
type state struct {
	user      domain.User
	log       []domain.Transaction
	portfolio domain.Portfolio
}

func (s *Service) load(ctx context.Context) (state, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return state{}, errors.Wrap(err, "load user")
	}
	log, err := s.store.Transactions(ctx)
	if err != nil {
		return state{}, errors.Wrap(err, "load transactions")
	}
	portfolio, err := s.store.Portfolio(ctx)
	if err != nil {
		return state{}, errors.Wrap(err, "load portfolio")
	}

	return state{user: user, log: log, portfolio: portfolio}, nil
}

// outcome is the state an operation wants to commit.
type outcome struct {
	user domain.User
	// portfolio is written only when set.
	portfolio *domain.Portfolio
	tx        domain.Transaction
}

// record stamps tx, prepends it to the log and commits everything in one batch.
func (s *Service) record(ctx context.Context, op string, current state, next outcome) (domain.Transaction, error) {
	before := current.user.Balance
	after := next.user.Balance

	tx := next.tx
	tx.ID = s.nextID(current.log)
	tx.Date = s.now()
	tx.Status = domain.TransactionStatusSuccess
	tx.BalanceBefore = &before
	tx.BalanceAfter = &after

	change := records.Change{
		User:         &next.user,
		Transactions: domain.Prepend(current.log, tx),
	}
	if next.portfolio != nil {
		change.Portfolio = *next.portfolio
		change.ReplacePortfolio = true
	}

	if err := s.store.Commit(ctx, change); err != nil {
		s.logger.Error("failed to record transaction",
			zap.String("op", op),
			zap.String("amount", tx.Amount.String()),
			zap.Error(err))
		return domain.Transaction{}, errors.Wrapf(err, "%s: record transaction", op)
	}

	s.logger.Info("transaction recorded",
		zap.String("op", op),
		zap.String("id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.String()),
		zap.String("balance_before", before.String()),
		zap.String("balance_after", after.String()))

	return tx, nil
}

func (s *Service) nextID(log []domain.Transaction) string {
	for _, tx := range log {
		s.ids.Observe(tx.ID)
	}
	return s.ids.Next()
}

// rejected logs a validation failure and passes err through.
func (s *Service) rejected(op string, err error) error {
	if verr, ok := IsValidation(err); ok {
		s.logger.Warn("operation rejected",
			zap.String("op", op),
			zap.String("reason", string(verr.Reason)),
			zap.String("message", verr.Message))
	}
	return err
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return reject(ReasonInvalidAmount, "Please enter a valid amount")
	}
	return nil
}

func debit(user domain.User, amount decimal.Decimal) (domain.User, error) {
	if !user.CanDebit(amount) {
		return domain.User{}, reject(ReasonInsufficientBalance, "Insufficient balance")
	}
	user.Balance = user.Balance.Sub(amount)
	return user, nil
}

func credit(user domain.User, amount decimal.Decimal) domain.User {
	user.Balance = user.Balance.Add(amount)
	return user
}
