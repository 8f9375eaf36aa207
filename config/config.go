package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvStateDir     = "MINIBANK_STATE_DIR"
	EnvStore        = "MINIBANK_STORE"
	EnvUsername     = "MINIBANK_USERNAME"
	EnvPasswordHash = "MINIBANK_PASSWORD_HASH"
)

// StoreKind selects the record store backend.
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreWAL    StoreKind = "wal"
	StoreMemory StoreKind = "memory"
)

const (
	defaultStateDir = "./state"
	defaultLatency  = time.Second
)

type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

type Config struct {
	StateDir         string
	Store            StoreKind
	Currency         string
	Latency          time.Duration
	Credentials      Credentials
	GoldPricePerGram decimal.Decimal
	Stocks           []domain.StockQuote
	OpeningBalance   decimal.Decimal
	OpeningGold      decimal.Decimal
}

type ConfigTmp struct {
	StateDir         string         `yaml:"state_dir"`
	Store            string         `yaml:"store"`
	Currency         string         `yaml:"currency"`
	Latency          *time.Duration `yaml:"latency,omitempty"`
	Credentials      CredentialsTmp `yaml:"credentials"`
	GoldPricePerGram string         `yaml:"gold_price_per_gram,omitempty"`
	Stocks           []StockTmp     `yaml:"stocks,omitempty"`
	OpeningBalance   string         `yaml:"opening_balance,omitempty"`
	OpeningGold      string         `yaml:"opening_gold,omitempty"`
}

type CredentialsTmp struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty"`
}

type StockTmp struct {
	Symbol        string `yaml:"symbol"`
	Name          string `yaml:"name"`
	Price         string `yaml:"price"`
	Change        string `yaml:"change,omitempty"`
	ChangePercent string `yaml:"change_percent,omitempty"`
}

// Default returns the demo configuration.
func Default() Config {
	return Config{
		StateDir: defaultStateDir,
		Store:    StoreFile,
		Currency: domain.DefaultCurrency,
		Latency:  defaultLatency,
		Credentials: Credentials{
			Username: "demo@bank.com",
			Password: "demo123",
		},
		GoldPricePerGram: domain.DefaultGoldPricePerGram,
		Stocks:           domain.DefaultQuotes(),
		OpeningBalance:   domain.DefaultOpeningBalance,
		OpeningGold:      domain.DefaultGoldHolding,
	}
}

// Load reads the yaml config at path, or the defaults when path is empty,
// and applies environment overrides. A .env file in the working directory is
// loaded first; a missing one is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	cfg := Default()
	if path != "" {
		var err error
		cfg, err = getYaml(path)
		if err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the typed values.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreWAL, StoreMemory:
	default:
		return fmt.Errorf("incorrect 'store' param %q, expected file, wal or memory", c.Store)
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("incorrect 'currency' param %q, expected an ISO 4217 code", c.Currency)
	}
	if c.Latency < 0 {
		return fmt.Errorf("incorrect 'latency' param %s, must not be negative", c.Latency)
	}
	if strings.TrimSpace(c.Credentials.Username) == "" {
		return errors.New("'credentials.username' is required")
	}
	if c.Credentials.Password == "" && c.Credentials.PasswordHash == "" {
		return errors.New("one of 'credentials.password' or 'credentials.password_hash' is required")
	}
	if !c.GoldPricePerGram.IsPositive() {
		return fmt.Errorf("incorrect 'gold_price_per_gram' param %s, must be positive", c.GoldPricePerGram)
	}
	if c.OpeningBalance.IsNegative() {
		return fmt.Errorf("incorrect 'opening_balance' param %s, must not be negative", c.OpeningBalance)
	}
	if c.OpeningGold.IsNegative() {
		return fmt.Errorf("incorrect 'opening_gold' param %s, must not be negative", c.OpeningGold)
	}
	return nil
}

// SeedUser returns the demo user with the configured opening position.
func (c Config) SeedUser() domain.User {
	user := domain.DefaultUser()
	user.Username = c.Credentials.Username
	user.Balance = c.OpeningBalance
	user.GoldHolding = c.OpeningGold
	return user
}

func getYaml(path string) (Config, error) {
	var c ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(f, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse yaml config")
	}

	cfg := Default()

	if c.StateDir != "" {
		cfg.StateDir = c.StateDir
	}
	if c.Store != "" {
		cfg.Store = StoreKind(strings.ToLower(c.Store))
	}
	if c.Currency != "" {
		cfg.Currency = strings.ToUpper(c.Currency)
	}
	if c.Latency != nil {
		cfg.Latency = *c.Latency
	}

	if c.Credentials.Username != "" {
		cfg.Credentials = Credentials{
			Username:     c.Credentials.Username,
			Password:     c.Credentials.Password,
			PasswordHash: c.Credentials.PasswordHash,
		}
	}

	if c.GoldPricePerGram != "" {
		price, err := decimal.NewFromString(c.GoldPricePerGram)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'gold_price_per_gram' param in yaml config (must be a decimal), error: %w", err)
		}
		cfg.GoldPricePerGram = price
	}

	if c.OpeningBalance != "" {
		balance, err := decimal.NewFromString(c.OpeningBalance)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'opening_balance' param in yaml config (must be a decimal), error: %w", err)
		}
		cfg.OpeningBalance = balance
	}

	if c.OpeningGold != "" {
		gold, err := decimal.NewFromString(c.OpeningGold)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'opening_gold' param in yaml config (must be a decimal), error: %w", err)
		}
		cfg.OpeningGold = gold
	}

	if len(c.Stocks) > 0 {
		stocks := make([]domain.StockQuote, 0, len(c.Stocks))
		for _, s := range c.Stocks {
			quote, err := s.toQuote()
			if err != nil {
				return Config{}, err
			}
			stocks = append(stocks, quote)
		}
		cfg.Stocks = stocks
	}

	return cfg, nil
}

func (s StockTmp) toQuote() (domain.StockQuote, error) {
	parse := func(field, value string) (decimal.Decimal, error) {
		if value == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("incorrect '%s' of stock %s in yaml config (must be a decimal), error: %w", field, s.Symbol, err)
		}
		return d, nil
	}

	price, err := parse("price", s.Price)
	if err != nil {
		return domain.StockQuote{}, err
	}
	change, err := parse("change", s.Change)
	if err != nil {
		return domain.StockQuote{}, err
	}
	changePercent, err := parse("change_percent", s.ChangePercent)
	if err != nil {
		return domain.StockQuote{}, err
	}

	return domain.StockQuote{
		Symbol:        strings.ToUpper(s.Symbol),
		Name:          s.Name,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}

func applyEnv(cfg *Config) {
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		cfg.StateDir = stateDir
	}
	if store := os.Getenv(EnvStore); store != "" {
		cfg.Store = StoreKind(strings.ToLower(store))
	}
	if username := os.Getenv(EnvUsername); username != "" {
		cfg.Credentials.Username = username
	}
	if hash := os.Getenv(EnvPasswordHash); hash != "" {
		cfg.Credentials.PasswordHash = hash
	}
}
