package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minibank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvStateDir, "")
	t.Setenv(EnvStore, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./state", cfg.StateDir)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, time.Second, cfg.Latency)
	assert.Equal(t, "demo@bank.com", cfg.Credentials.Username)
	assert.True(t, cfg.GoldPricePerGram.Equal(decimal.NewFromInt(6500)))
	assert.Len(t, cfg.Stocks, 6)
	assert.True(t, cfg.OpeningBalance.Equal(decimal.NewFromInt(125000)))
}

func TestLoad_Yaml(t *testing.T) {
	t.Setenv(EnvStateDir, "")
	t.Setenv(EnvStore, "")

	path := writeConfig(t, `
state_dir: /tmp/minibank
store: WAL
currency: usd
latency: 250ms
credentials:
  username: me@bank.com
  password: secret
gold_price_per_gram: "7000.50"
opening_balance: "5000"
opening_gold: "1"
stocks:
  - symbol: acme
    name: Acme Corp
    price: "12.5"
    change: "-0.5"
    change_percent: "-3.85"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/minibank", cfg.StateDir)
	assert.Equal(t, StoreWAL, cfg.Store)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 250*time.Millisecond, cfg.Latency)
	assert.Equal(t, Credentials{Username: "me@bank.com", Password: "secret"}, cfg.Credentials)
	assert.True(t, cfg.GoldPricePerGram.Equal(decimal.RequireFromString("7000.5")))
	require.Len(t, cfg.Stocks, 1)
	assert.Equal(t, "ACME", cfg.Stocks[0].Symbol)
	assert.True(t, cfg.Stocks[0].Change.IsNegative())

	user := cfg.SeedUser()
	assert.Equal(t, "me@bank.com", user.Username)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, user.GoldHolding.Equal(decimal.NewFromInt(1)))
}

func TestLoad_ZeroLatencyIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "latency: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Latency)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad store", body: "store: redis\n"},
		{name: "bad currency", body: "currency: XXXX\n"},
		{name: "bad gold price", body: "gold_price_per_gram: abc\n"},
		{name: "zero gold price", body: "gold_price_per_gram: \"0\"\n"},
		{name: "negative balance", body: "opening_balance: \"-1\"\n"},
		{name: "bad stock price", body: "stocks:\n  - symbol: A\n    price: x\n"},
		{name: "user without password", body: "credentials:\n  username: a@b.co\n"},
		{name: "not yaml", body: "state_dir: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvStateDir, "/var/lib/minibank")
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvPasswordHash, "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := Load(writeConfig(t, "state_dir: ./ignored\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/minibank", cfg.StateDir)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.Credentials.PasswordHash)
}

func TestFlags_Get(t *testing.T) {
	t.Setenv(EnvStateDir, "/from/env")
	t.Setenv(EnvStore, "")

	var f Flags
	fs := flag.NewFlagSet("minibank", flag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"-state-dir", "/from/flag", "-store", "wal", "-debug"}))

	cfg, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.StateDir, "flag beats environment")
	assert.Equal(t, StoreWAL, cfg.Store)
	assert.True(t, f.Debug)

	f.Store = "tape"
	_, err = f.Get()
	assert.Error(t, err)
}
