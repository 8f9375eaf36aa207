package session

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
	"github.com/vadiminshakov/minibank/internal/storage/records"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

type failingFlags struct {
	err error
}

func (f failingFlags) LoggedIn(context.Context) (bool, error) { return false, f.err }

func (f failingFlags) SetLoggedIn(context.Context, bool) error { return f.err }

func newManager(t *testing.T) (*Manager, *records.Store) {
	t.Helper()
	store := records.New(kv.NewMemoryStore())
	m, err := NewManager(DefaultCredentials(), store, bcrypt.MinCost, nil)
	require.NoError(t, err)
	return m, store
}

func TestManager_LoginLogout(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	assert.ErrorIs(t, m.Require(ctx), ErrNotLoggedIn)

	require.NoError(t, m.Login(ctx, "demo@bank.com", "demo123"))
	require.NoError(t, m.Require(ctx))
	assert.NotEmpty(t, m.SessionID())

	loggedIn, err := store.LoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	require.NoError(t, m.Logout(ctx))
	assert.ErrorIs(t, m.Require(ctx), ErrNotLoggedIn)
	assert.Empty(t, m.SessionID())
}

func TestManager_LoginRejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "demo@bank.com", password: "demo124"},
		{name: "wrong user", username: "other@bank.com", password: "demo123"},
		{name: "empty", username: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newManager(t)

			err := m.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)

			loggedIn, err := store.LoggedIn(ctx)
			require.NoError(t, err)
			assert.False(t, loggedIn, "rejected login must not set the flag")
		})
	}
}

func TestManager_UsernameIgnoresCase(t *testing.T) {
	m, _ := newManager(t)
	assert.NoError(t, m.Login(context.Background(), " Demo@Bank.com ", "demo123"))
}

func TestManager_PasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	m, err := NewManager(Credentials{Username: "me@bank.com", PasswordHash: string(hash)},
		records.New(kv.NewMemoryStore()), 0, nil)
	require.NoError(t, err)

	assert.NoError(t, m.Login(context.Background(), "me@bank.com", "s3cret"))

	_, err = NewManager(Credentials{Username: "me@bank.com", PasswordHash: "plain"},
		records.New(kv.NewMemoryStore()), 0, nil)
	assert.Error(t, err, "a non-bcrypt hash is rejected")
}

func TestNewManager_Validation(t *testing.T) {
	store := records.New(kv.NewMemoryStore())

	_, err := NewManager(Credentials{Password: "x"}, store, bcrypt.MinCost, nil)
	assert.Error(t, err)

	_, err = NewManager(Credentials{Username: "u"}, store, bcrypt.MinCost, nil)
	assert.Error(t, err)

	_, err = NewManager(DefaultCredentials(), nil, bcrypt.MinCost, nil)
	assert.Error(t, err)
}

func TestManager_StorageFailure(t *testing.T) {
	ctx := context.Background()
	failure := errors.Wrap(kv.ErrUnavailable, "disk gone")

	m, err := NewManager(DefaultCredentials(), failingFlags{err: failure}, bcrypt.MinCost, nil)
	require.NoError(t, err)

	err = m.Login(ctx, "demo@bank.com", "demo123")
	assert.True(t, errors.Is(err, kv.ErrUnavailable))
	assert.Empty(t, m.SessionID())

	err = m.Require(ctx)
	assert.True(t, errors.Is(err, kv.ErrUnavailable))
	assert.False(t, errors.Is(err, ErrNotLoggedIn))

	assert.True(t, errors.Is(m.Logout(ctx), kv.ErrUnavailable))
}

func TestManager_SessionIDOnLogs(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	m, err := NewManager(DefaultCredentials(), records.New(kv.NewMemoryStore()), bcrypt.MinCost, zap.New(core))
	require.NoError(t, err)

	sessionFields := func(entry observer.LoggedEntry) []string {
		var ids []string
		for _, f := range entry.Context {
			if f.Key == "session" {
				ids = append(ids, f.String)
			}
		}
		return ids
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Login(ctx, "demo@bank.com", "demo123"))
		id := m.SessionID()
		require.NoError(t, m.Logout(ctx))

		entries := logs.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, []string{id}, sessionFields(entries[0]), "login carries only the new session")
		assert.Equal(t, []string{id}, sessionFields(entries[1]), "logout carries only the ending session")
	}

	require.ErrorIs(t, m.Login(ctx, "demo@bank.com", "wrong"), ErrInvalidCredentials)
	for _, entry := range logs.TakeAll() {
		assert.Empty(t, sessionFields(entry), "nothing after logout is tagged with an old session")
	}
}
