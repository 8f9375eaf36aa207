package records

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (m *mockBackend) Commit(batch map[string][]byte) error {
	args := m.Called(batch)
	return args.Error(0)
}

func (m *mockBackend) Close() error {
	return nil
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newStore(backend kv.Store) *Store {
	return New(backend, WithClock(func() time.Time { return fixedNow }))
}

func TestStore_DefaultsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := newStore(kv.NewMemoryStore())

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rajesh Kumar", user.Name)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(125000)))
	assert.True(t, user.GoldHolding.Equal(decimal.RequireFromString("25.5")))

	log, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, "TXN001", log[0].ID)
	assert.Equal(t, fixedNow.Add(-2*time.Hour), log[0].Date)

	portfolio, err := s.Portfolio(ctx)
	require.NoError(t, err)
	assert.NotNil(t, portfolio)
	assert.Empty(t, portfolio)

	loggedIn, err := s.LoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestStore_InitSeedsOnlyAbsentRecords(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	s := newStore(backend)

	custom := domain.DefaultUser()
	custom.Name = "Asha"
	require.NoError(t, s.PutUser(ctx, custom))

	require.NoError(t, s.Init(ctx))

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name, "existing record must survive Init")

	for _, key := range []string{KeyTransactions, KeyPortfolio} {
		_, ok, err := backend.Get(key)
		require.NoError(t, err)
		assert.True(t, ok, "%s must be seeded", key)
	}

	_, ok, err := backend.Get(KeyLoggedIn)
	require.NoError(t, err)
	assert.False(t, ok, "session flag is not seeded")
}

func TestStore_InitIsNoopWhenSeeded(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Get", mock.Anything).Return([]byte(`{}`), true, nil)

	require.NoError(t, newStore(backend).Init(context.Background()))
	backend.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStore_CommitWritesOneBatch(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	backend.On("Commit", mock.MatchedBy(func(batch map[string][]byte) bool {
		_, u := batch[KeyUser]
		_, tx := batch[KeyTransactions]
		_, p := batch[KeyPortfolio]
		return len(batch) == 3 && u && tx && p
	})).Return(nil).Once()

	user := domain.DefaultUser()
	err := newStore(backend).Commit(ctx, Change{
		User:             &user,
		Transactions:     domain.SeedTransactions(fixedNow),
		Portfolio:        domain.Portfolio{},
		ReplacePortfolio: true,
	})
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestStore_CommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(kv.NewMemoryStore())

	portfolio, err := domain.Portfolio{}.Buy("TCS", decimal.NewFromInt(5), decimal.RequireFromString("3850.25"))
	require.NoError(t, err)

	user := domain.DefaultUser()
	user.Balance = decimal.RequireFromString("105748.75")
	require.NoError(t, s.Commit(ctx, Change{User: &user, Portfolio: portfolio, ReplacePortfolio: true}))

	gotUser, err := s.User(ctx)
	require.NoError(t, err)
	assert.True(t, gotUser.Balance.Equal(user.Balance))

	gotPortfolio, err := s.Portfolio(ctx)
	require.NoError(t, err)
	require.Len(t, gotPortfolio, 1)
	assert.Equal(t, "TCS", gotPortfolio[0].Symbol)
	assert.True(t, gotPortfolio[0].AvgPrice.Equal(decimal.RequireFromString("3850.25")))

	// a full sell leaves an empty but present portfolio
	require.NoError(t, s.PutPortfolio(ctx, nil))
	gotPortfolio, err = s.Portfolio(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotPortfolio)
}

func TestStore_EmptyCommitDoesNotTouchBackend(t *testing.T) {
	backend := &mockBackend{}
	require.NoError(t, newStore(backend).Commit(context.Background(), Change{}))
	backend.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStore_SessionFlag(t *testing.T) {
	ctx := context.Background()
	s := newStore(kv.NewMemoryStore())

	require.NoError(t, s.SetLoggedIn(ctx, true))
	loggedIn, err := s.LoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	require.NoError(t, s.SetLoggedIn(ctx, false))
	loggedIn, err = s.LoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestStore_BackendFailures(t *testing.T) {
	ctx := context.Background()
	failure := errors.Wrap(kv.ErrUnavailable, "disk gone")

	t.Run("read", func(t *testing.T) {
		backend := &mockBackend{}
		backend.On("Get", KeyUser).Return(nil, false, failure)

		_, err := newStore(backend).User(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, kv.ErrUnavailable))
	})

	t.Run("write", func(t *testing.T) {
		backend := &mockBackend{}
		backend.On("Commit", mock.Anything).Return(failure)

		user := domain.DefaultUser()
		err := newStore(backend).Commit(ctx, Change{User: &user})
		require.Error(t, err)
		assert.True(t, errors.Is(err, kv.ErrUnavailable))
	})

	t.Run("corrupt record", func(t *testing.T) {
		backend := &mockBackend{}
		backend.On("Get", KeyPortfolio).Return([]byte(`{"not":"a list"}`), true, nil)

		_, err := newStore(backend).Portfolio(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, kv.ErrUnavailable))
	})

	t.Run("cancelled context", func(t *testing.T) {
		backend := &mockBackend{}
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		user := domain.DefaultUser()
		err := newStore(backend).Commit(cctx, Change{User: &user})
		assert.ErrorIs(t, err, context.Canceled)
		backend.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
