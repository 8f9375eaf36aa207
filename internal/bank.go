package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/minibank/config"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/ledger"
	"github.com/vadiminshakov/minibank/internal/market"
	"github.com/vadiminshakov/minibank/internal/session"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
	"github.com/vadiminshakov/minibank/internal/storage/records"
)

// Bank wires the record store, market, session and ledger together and
// refuses every account operation until a session is active.
type Bank struct {
	Config  config.Config
	Market  *market.Static
	session *session.Manager
	ledger  *ledger.Service
	records *records.Store
	backend kv.Store
	logger  *zap.Logger
}

type bankOptions struct {
	now      func() time.Time
	hashCost int
	backend  kv.Store
}

// BankOption tunes NewBank.
type BankOption func(*bankOptions)

// WithClock sets the clock for transaction dates and seed data.
func WithClock(now func() time.Time) BankOption {
	return func(o *bankOptions) {
		o.now = now
	}
}

// WithHashCost sets the bcrypt cost used when the config carries a plain password.
func WithHashCost(cost int) BankOption {
	return func(o *bankOptions) {
		o.hashCost = cost
	}
}

// WithBackend uses backend instead of the one named by the config.
func WithBackend(backend kv.Store) BankOption {
	return func(o *bankOptions) {
		o.backend = backend
	}
}

// NewBank opens the configured store, seeds absent records and builds the services.
func NewBank(ctx context.Context, conf config.Config, logger *zap.Logger, opts ...BankOption) (*Bank, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := bankOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = newRecordBackend(conf)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open record store")
		}
	}

	store := records.New(backend,
		records.WithClock(o.now),
		records.WithSeed(records.Seed{User: conf.SeedUser, Transactions: domain.SeedTransactions}),
	)
	if err := store.Init(ctx); err != nil {
		_ = backend.Close()
		return nil, errors.Wrap(err, "failed to seed records")
	}

	mkt, err := market.NewStatic(
		market.WithGoldPrice(conf.GoldPricePerGram),
		market.WithQuotes(conf.Stocks),
		market.WithClock(o.now),
	)
	if err != nil {
		_ = backend.Close()
		return nil, errors.Wrap(err, "failed to create market")
	}

	creds := session.Credentials{
		Username:     conf.Credentials.Username,
		Password:     conf.Credentials.Password,
		PasswordHash: conf.Credentials.PasswordHash,
	}
	sessions, err := session.NewManager(creds, store, o.hashCost, logger.Named("session"))
	if err != nil {
		_ = backend.Close()
		return nil, errors.Wrap(err, "failed to create session manager")
	}

	svc, err := ledger.NewService(store, mkt, logger.Named("ledger"),
		ledger.WithClock(o.now),
		ledger.WithCurrency(conf.Currency),
	)
	if err != nil {
		_ = backend.Close()
		return nil, errors.Wrap(err, "failed to create ledger")
	}

	logger.Debug("bank ready",
		zap.String("store", string(conf.Store)),
		zap.String("state_dir", conf.StateDir),
		zap.String("currency", conf.Currency))

	return &Bank{
		Config:  conf,
		Market:  mkt,
		session: sessions,
		ledger:  svc,
		records: store,
		backend: backend,
		logger:  logger,
	}, nil
}

// Close closes the record store.
func (b *Bank) Close() error {
	return b.backend.Close()
}

// Login starts a session.
func (b *Bank) Login(ctx context.Context, username, password string) error {
	return b.session.Login(ctx, username, password)
}

// Logout ends the session. Account data is kept.
func (b *Bank) Logout(ctx context.Context) error {
	return b.session.Logout(ctx)
}

// LoggedIn reports whether a session is active.
func (b *Bank) LoggedIn(ctx context.Context) (bool, error) {
	err := b.session.Require(ctx)
	if errors.Is(err, session.ErrNotLoggedIn) {
		return false, nil
	}
	return err == nil, err
}

// Username returns the configured login.
func (b *Bank) Username() string {
	return b.session.Username()
}

// Currency returns the ISO code amounts are shown in.
func (b *Bank) Currency() string {
	return b.Config.Currency
}

// Services returns the bill catalogue.
func (b *Bank) Services() []ledger.BillService {
	return ledger.Services()
}

// Quotes returns the tradable symbols.
func (b *Bank) Quotes(ctx context.Context) ([]domain.StockQuote, error) {
	return b.ledger.Quotes(ctx)
}

// GoldPrice returns the current gold rate.
func (b *Bank) GoldPrice(ctx context.Context) (domain.GoldPrice, error) {
	return b.ledger.GoldPrice(ctx)
}

func (b *Bank) Account(ctx context.Context) (domain.User, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.User{}, err
	}
	return b.ledger.Account(ctx)
}

func (b *Bank) Summary(ctx context.Context) (ledger.Summary, error) {
	if err := b.session.Require(ctx); err != nil {
		return ledger.Summary{}, err
	}
	return b.ledger.Summary(ctx)
}

func (b *Bank) RecentTransactions(ctx context.Context, n int) ([]domain.Transaction, error) {
	if err := b.session.Require(ctx); err != nil {
		return nil, err
	}
	return b.ledger.RecentTransactions(ctx, n)
}

func (b *Bank) Holdings(ctx context.Context) ([]ledger.Holding, error) {
	if err := b.session.Require(ctx); err != nil {
		return nil, err
	}
	return b.ledger.Holdings(ctx)
}

func (b *Bank) PortfolioValue(ctx context.Context) (decimal.Decimal, error) {
	if err := b.session.Require(ctx); err != nil {
		return decimal.Zero, err
	}
	return b.ledger.PortfolioValue(ctx)
}

func (b *Bank) PayBill(ctx context.Context, req ledger.BillRequest) (domain.Transaction, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return b.ledger.PayBill(ctx, req)
}

func (b *Bank) Transfer(ctx context.Context, req ledger.TransferRequest) (domain.Transaction, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return b.ledger.Transfer(ctx, req)
}

func (b *Bank) TradeGold(ctx context.Context, side domain.Side, grams decimal.Decimal) (domain.Transaction, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return b.ledger.TradeGold(ctx, side, grams)
}

func (b *Bank) TradeStock(ctx context.Context, side domain.Side, symbol string, quantity decimal.Decimal) (domain.Transaction, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return b.ledger.TradeStock(ctx, side, symbol, quantity)
}

func (b *Bank) UpdateProfile(ctx context.Context, update ledger.ProfileUpdate) (domain.User, error) {
	if err := b.session.Require(ctx); err != nil {
		return domain.User{}, err
	}
	return b.ledger.UpdateProfile(ctx, update)
}
