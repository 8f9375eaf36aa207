// Package records is the typed record store of the simulator: the user profile,
// the transaction log, the stock portfolio and the logged-in flag.
// Absent records are seeded with defaults on first access.
package records

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
)

// Keys of the persisted records.
const (
	KeyUser         = "user"
	KeyTransactions = "transactions"
	KeyPortfolio    = "portfolio"
	KeyLoggedIn     = "isLoggedIn"
)

// Seed produces the default records.
type Seed struct {
	User         func() domain.User
	Transactions func(now time.Time) []domain.Transaction
}

// DefaultSeed seeds the demo account.
func DefaultSeed() Seed {
	return Seed{
		User:         domain.DefaultUser,
		Transactions: domain.SeedTransactions,
	}
}

// Change is a set of records written together. Nil fields are left untouched.
type Change struct {
	User         *domain.User
	Transactions []domain.Transaction
	Portfolio    domain.Portfolio
	// ReplacePortfolio must be set to write Portfolio, since an empty portfolio is a valid value.
	ReplacePortfolio bool
}

// Store reads and writes whole records through a kv backend.
type Store struct {
	backend kv.Store
	seed    Seed
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSeed overrides the default records.
func WithSeed(seed Seed) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// WithClock overrides the clock used to date seed transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a record store on top of backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		seed:    DefaultSeed(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init persists the seed for every record that is absent.
func (s *Store) Init(ctx context.Context) error {
	batch := make(map[string][]byte)

	for key, value := range map[string]func() any{
		KeyUser:         func() any { return s.seed.User() },
		KeyTransactions: func() any { return s.seed.Transactions(s.now()) },
		KeyPortfolio:    func() any { return domain.Portfolio{} },
	} {
		_, ok, err := s.backend.Get(key)
		if err != nil {
			return errors.Wrapf(err, "read %s", key)
		}
		if ok {
			continue
		}
		payload, err := json.Marshal(value())
		if err != nil {
			return errors.Wrapf(err, "encode default %s", key)
		}
		batch[key] = payload
	}

	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return errors.Wrap(s.backend.Commit(batch), "seed records")
}

// User returns the user record, or the seed when none is stored.
func (s *Store) User(ctx context.Context) (domain.User, error) {
	var user domain.User
	ok, err := s.read(KeyUser, &user)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return s.seed.User(), nil
	}
	return user, nil
}

// Transactions returns the transaction log, newest first.
func (s *Store) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var log []domain.Transaction
	ok, err := s.read(KeyTransactions, &log)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.seed.Transactions(s.now()), nil
	}
	return log, nil
}

// Portfolio returns the stock portfolio, empty when none is stored.
func (s *Store) Portfolio(ctx context.Context) (domain.Portfolio, error) {
	var portfolio domain.Portfolio
	ok, err := s.read(KeyPortfolio, &portfolio)
	if err != nil {
		return nil, err
	}
	if !ok || portfolio == nil {
		return domain.Portfolio{}, nil
	}
	return portfolio, nil
}

// LoggedIn returns the session flag.
func (s *Store) LoggedIn(ctx context.Context) (bool, error) {
	var flag bool
	if _, err := s.read(KeyLoggedIn, &flag); err != nil {
		return false, err
	}
	return flag, nil
}

// PutUser replaces the user record.
func (s *Store) PutUser(ctx context.Context, user domain.User) error {
	return s.Commit(ctx, Change{User: &user})
}

// PutTransactions replaces the transaction log.
func (s *Store) PutTransactions(ctx context.Context, log []domain.Transaction) error {
	if log == nil {
		log = []domain.Transaction{}
	}
	return s.Commit(ctx, Change{Transactions: log})
}

// PutPortfolio replaces the portfolio.
func (s *Store) PutPortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	return s.Commit(ctx, Change{Portfolio: portfolio, ReplacePortfolio: true})
}

// SetLoggedIn writes the session flag.
func (s *Store) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	payload, err := json.Marshal(loggedIn)
	if err != nil {
		return errors.Wrap(err, "encode session flag")
	}
	return errors.Wrap(s.backend.Commit(map[string][]byte{KeyLoggedIn: payload}), "write session flag")
}

// Commit writes every record of change in a single backend batch.
func (s *Store) Commit(ctx context.Context, change Change) error {
	batch := make(map[string][]byte, 3)

	if change.User != nil {
		payload, err := json.Marshal(change.User)
		if err != nil {
			return errors.Wrap(err, "encode user")
		}
		batch[KeyUser] = payload
	}
	if change.Transactions != nil {
		payload, err := json.Marshal(change.Transactions)
		if err != nil {
			return errors.Wrap(err, "encode transactions")
		}
		batch[KeyTransactions] = payload
	}
	if change.ReplacePortfolio {
		portfolio := change.Portfolio
		if portfolio == nil {
			portfolio = domain.Portfolio{}
		}
		payload, err := json.Marshal(portfolio)
		if err != nil {
			return errors.Wrap(err, "encode portfolio")
		}
		batch[KeyPortfolio] = payload
	}

	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return errors.Wrap(s.backend.Commit(batch), "commit records")
}

func (s *Store) read(key string, dst any) (bool, error) {
	payload, ok, err := s.backend.Get(key)
	if err != nil {
		return false, errors.Wrapf(err, "read %s", key)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, errors.Wrapf(kv.ErrUnavailable, "decode %s: %v", key, err)
	}
	return true, nil
}
