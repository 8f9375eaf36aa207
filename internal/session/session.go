// Package session gates the ledger behind the single configured login.
package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the username or password does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotLoggedIn is returned by Require when there is no active session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// DefaultUsername and DefaultPassword are the demo credentials.
const (
	DefaultUsername = "demo@bank.com"
	DefaultPassword = "demo123"
)

// FlagStore persists the logged-in flag.
type FlagStore interface {
	LoggedIn(ctx context.Context) (bool, error)
	SetLoggedIn(ctx context.Context, loggedIn bool) error
}

// Credentials is the accepted login. Exactly one of Password or PasswordHash is needed;
// PasswordHash wins when both are set.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// DefaultCredentials returns the demo login.
func DefaultCredentials() Credentials {
	return Credentials{Username: DefaultUsername, Password: DefaultPassword}
}

// Manager checks credentials and keeps the logged-in flag.
type Manager struct {
	store    FlagStore
	username string
	hash     []byte
	// base is the constructor logger; logger is base plus the active session id.
	base     *zap.Logger
	logger   *zap.Logger

	sessionID string
}

// NewManager creates a Manager. A plain password is hashed once here with cost.
// A cost of zero means bcrypt.DefaultCost.
func NewManager(creds Credentials, store FlagStore, cost int, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		return nil, errors.New("session flag store is required")
	}

	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	hash := []byte(creds.PasswordHash)
	if len(hash) == 0 {
		if creds.Password == "" {
			return nil, errors.New("password or password hash is required")
		}
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(creds.Password), cost)
		if err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, errors.Wrap(err, "invalid password hash")
	}

	return &Manager{
		store:    store,
		username: username,
		hash:     hash,
		base:     logger,
		logger:   logger,
	}, nil
}

// Login sets the logged-in flag when username and password match.
// Usernames compare case-insensitively.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if !strings.EqualFold(strings.TrimSpace(username), m.username) {
		m.logger.Warn("login rejected", zap.String("username", username))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.hash, []byte(password)); err != nil {
		m.logger.Warn("login rejected", zap.String("username", username))
		return ErrInvalidCredentials
	}

	if err := m.store.SetLoggedIn(ctx, true); err != nil {
		m.logger.Error("failed to persist session flag", zap.Error(err))
		return errors.Wrap(err, "login")
	}

	m.sessionID = uuid.New().String()
	m.logger = m.base.With(zap.String("session", m.sessionID))
	m.logger.Info("logged in", zap.String("username", m.username))

	return nil
}

// Logout clears the logged-in flag. User data is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.SetLoggedIn(ctx, false); err != nil {
		m.logger.Error("failed to clear session flag", zap.Error(err))
		return errors.Wrap(err, "logout")
	}

	m.logger.Info("logged out")
	m.sessionID = ""
	m.logger = m.base
	return nil
}

// Require returns ErrNotLoggedIn unless a session is active.
func (m *Manager) Require(ctx context.Context) error {
	loggedIn, err := m.store.LoggedIn(ctx)
	if err != nil {
		return errors.Wrap(err, "read session flag")
	}
	if !loggedIn {
		return ErrNotLoggedIn
	}
	return nil
}

// SessionID returns the id minted by the last Login in this process, empty otherwise.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Username returns the configured login.
func (m *Manager) Username() string {
	return m.username
}

// HashPassword returns a bcrypt hash suitable for credentials.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}
