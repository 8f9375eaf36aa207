// Package tui is the interactive terminal front end of the bank simulator.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/ledger"
)

// Banker is the account surface the front end drives.
type Banker interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) (bool, error)
	Username() string
	Currency() string
	Services() []ledger.BillService
	Quotes(ctx context.Context) ([]domain.StockQuote, error)
	GoldPrice(ctx context.Context) (domain.GoldPrice, error)
	Account(ctx context.Context) (domain.User, error)
	Summary(ctx context.Context) (ledger.Summary, error)
	RecentTransactions(ctx context.Context, n int) ([]domain.Transaction, error)
	Holdings(ctx context.Context) ([]ledger.Holding, error)
	PayBill(ctx context.Context, req ledger.BillRequest) (domain.Transaction, error)
	Transfer(ctx context.Context, req ledger.TransferRequest) (domain.Transaction, error)
	TradeGold(ctx context.Context, side domain.Side, grams decimal.Decimal) (domain.Transaction, error)
	TradeStock(ctx context.Context, side domain.Side, symbol string, quantity decimal.Decimal) (domain.Transaction, error)
	UpdateProfile(ctx context.Context, update ledger.ProfileUpdate) (domain.User, error)
}

const title = "MINIBANK"

// menu entries
const (
	menuDashboard = "dashboard"
	menuBill      = "bill"
	menuTransfer  = "transfer"
	menuGold      = "gold"
	menuStocks    = "stocks"
	menuHistory   = "history"
	menuProfile   = "profile"
	menuLogout    = "logout"
	menuQuit      = "quit"
)

// App runs the menu loop until the user quits.
type App struct {
	bank    Banker
	latency time.Duration
	logger  *zap.Logger
	out     io.Writer
}

// NewApp creates the front end. latency is the simulated processing delay of
// money-moving operations; profile updates wait half of it.
func NewApp(bank Banker, latency time.Duration, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{bank: bank, latency: latency, logger: logger, out: os.Stdout}
}

// Run shows the login form when needed, then the main menu.
func (a *App) Run(ctx context.Context) error {
	for {
		loggedIn, err := a.bank.LoggedIn(ctx)
		if err != nil {
			return err
		}
		if !loggedIn {
			if err := a.login(ctx); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}
		}

		choice, err := a.menu()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case menuQuit:
			return nil
		case menuLogout:
			if err := a.bank.Logout(ctx); err != nil {
				return err
			}
			continue
		}

		if err := a.dispatch(ctx, choice); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			// storage failures end the session; everything else is shown and the menu returns
			if !isExpected(err) {
				return err
			}
			a.println(Failure(err))
			a.pause()
		}
	}
}

func (a *App) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case menuDashboard:
		return a.dashboard(ctx)
	case menuBill:
		return a.payBill(ctx)
	case menuTransfer:
		return a.transfer(ctx)
	case menuGold:
		return a.gold(ctx)
	case menuStocks:
		return a.stocks(ctx)
	case menuHistory:
		return a.history(ctx)
	case menuProfile:
		return a.profile(ctx)
	default:
		return fmt.Errorf("unknown menu entry %q", choice)
	}
}

func (a *App) screen(step string) {
	fmt.Fprint(a.out, "\033[H\033[2J")
	fmt.Fprintln(a.out, headerStyle.Render(title))
	if step != "" {
		fmt.Fprintln(a.out, stepStyle.Render(step))
	}
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) pause() {
	var ok bool
	_ = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Back to menu").Affirmative("OK").Negative("").Value(&ok),
	)).Run()
}

func (a *App) login(ctx context.Context) error {
	var username, password string

	for {
		a.screen("SIGN IN")
		a.println(mutedStyle.Render("Demo credentials: demo@bank.com / demo123"))

		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&username).Validate(validateRequired("email")),
			huh.NewInput().Title("Password").Value(&password).EchoMode(huh.EchoModePassword).
				Validate(validateRequired("password")),
		)).Run()
		if err != nil {
			return err
		}

		err = a.bank.Login(ctx, username, password)
		if err == nil {
			return nil
		}
		if !isExpected(err) {
			return err
		}
		a.println(Failure(err))
		password = ""
		a.pause()
	}
}

func (a *App) menu() (string, error) {
	a.screen("")

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What would you like to do?").
			Options(
				huh.NewOption("Dashboard", menuDashboard),
				huh.NewOption("Pay a bill", menuBill),
				huh.NewOption("UPI transfer", menuTransfer),
				huh.NewOption("Digital gold", menuGold),
				huh.NewOption("Stocks", menuStocks),
				huh.NewOption("Transaction history", menuHistory),
				huh.NewOption("Profile", menuProfile),
				huh.NewOption("Log out", menuLogout),
				huh.NewOption("Quit", menuQuit),
			).
			Value(&choice),
	)).Run()

	return choice, err
}

func (a *App) dashboard(ctx context.Context) error {
	summary, err := a.bank.Summary(ctx)
	if err != nil {
		return err
	}
	a.screen("DASHBOARD")
	a.println(Dashboard(summary, a.bank.Currency()))
	a.pause()
	return nil
}

func (a *App) history(ctx context.Context) error {
	log, err := a.bank.RecentTransactions(ctx, 0)
	if err != nil {
		return err
	}
	a.screen("TRANSACTION HISTORY")
	a.println(History(log, a.bank.Currency()))
	a.pause()
	return nil
}

func (a *App) confirm(summary, question string) (bool, error) {
	a.println(boxStyle.Render(summary))

	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Confirm").Negative("Cancel").Value(&ok),
	)).Run()
	return ok, err
}

// process runs op behind a spinner after the simulated delay and shows the receipt.
func (a *App) process(message string, op func() (domain.Transaction, error)) error {
	var (
		tx    domain.Transaction
		opErr error
	)

	err := spinner.New().
		Title(message).
		Action(func() {
			time.Sleep(a.latency)
			tx, opErr = op()
		}).
		Run()
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}

	a.logger.Debug("transaction shown", zap.String("id", tx.ID))
	a.println(Receipt(tx, a.bank.Currency()))
	a.pause()
	return nil
}
