package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/ledger"
	"github.com/vadiminshakov/minibank/internal/market"
	"github.com/vadiminshakov/minibank/internal/session"
)

// isExpected reports errors that are shown to the user instead of ending the program.
func isExpected(err error) bool {
	if _, ok := ledger.IsValidation(err); ok {
		return true
	}
	return errors.Is(err, session.ErrInvalidCredentials) || errors.Is(err, session.ErrNotLoggedIn)
}

func (a *App) payBill(ctx context.Context) error {
	services := a.bank.Services()

	var serviceType string
	options := make([]huh.Option[string], 0, len(services))
	for _, s := range services {
		options = append(options, huh.NewOption(s.Title, s.Type))
	}

	a.screen("PAY A BILL")
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Service").Options(options...).Value(&serviceType),
	)).Run(); err != nil {
		return err
	}

	var service ledger.BillService
	for _, s := range services {
		if s.Type == serviceType {
			service = s
		}
	}

	var provider, consumerID, amountStr string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Provider").Options(huh.NewOptions(service.Providers...)...).Value(&provider),
		huh.NewInput().Title("Consumer ID / Mobile Number").Value(&consumerID).Validate(validateRequired("consumer id")),
		huh.NewInput().Title("Amount").Value(&amountStr).Validate(validatePositive),
	)).Run(); err != nil {
		return err
	}

	amount, err := parsePositive(amountStr)
	if err != nil {
		return err
	}

	currency := a.bank.Currency()
	ok, err := a.confirm(fmt.Sprintf("Service: %s\nProvider: %s\nConsumer ID: %s\nAmount: %s",
		service.Title, provider, consumerID, domain.FormatAmount(amount, currency)), "Confirm payment?")
	if err != nil || !ok {
		return err
	}

	return a.process("Processing payment...", func() (domain.Transaction, error) {
		return a.bank.PayBill(ctx, ledger.BillRequest{
			Service:    service.Type,
			Provider:   provider,
			ConsumerID: consumerID,
			Amount:     amount,
		})
	})
}

func (a *App) transfer(ctx context.Context) error {
	var method string

	a.screen("UPI TRANSFER")
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Pay to").
			Options(
				huh.NewOption("UPI ID", string(ledger.TransferUPI)),
				huh.NewOption("Mobile number", string(ledger.TransferMobile)),
			).
			Value(&method),
	)).Run(); err != nil {
		return err
	}

	recipientTitle := "UPI ID"
	recipientHint := "e.g. user@bank"
	if ledger.TransferMethod(method) == ledger.TransferMobile {
		recipientTitle = "Mobile number"
		recipientHint = "10 digits, starting with 6-9"
	}

	var recipient, amountStr string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(recipientTitle).Description(recipientHint).Value(&recipient).
			Validate(validateRequired(strings.ToLower(recipientTitle))),
		huh.NewInput().Title("Amount").Value(&amountStr).Validate(validatePositive),
	)).Run(); err != nil {
		return err
	}

	amount, err := parsePositive(amountStr)
	if err != nil {
		return err
	}

	ok, err := a.confirm(fmt.Sprintf("To: %s\nAmount: %s", strings.TrimSpace(recipient),
		domain.FormatAmount(amount, a.bank.Currency())), "Send money?")
	if err != nil || !ok {
		return err
	}

	return a.process("Processing transfer...", func() (domain.Transaction, error) {
		return a.bank.Transfer(ctx, ledger.TransferRequest{
			Method:    ledger.TransferMethod(method),
			Recipient: recipient,
			Amount:    amount,
		})
	})
}

func (a *App) gold(ctx context.Context) error {
	price, err := a.bank.GoldPrice(ctx)
	if err != nil {
		return err
	}
	user, err := a.bank.Account(ctx)
	if err != nil {
		return err
	}

	currency := a.bank.Currency()
	a.screen("DIGITAL GOLD")
	a.println(row("Gold price", domain.FormatAmount(price.PricePerGram, currency)+" / gram"))
	a.println(row("Your holding", fmt.Sprintf("%sg ≈ %s", user.GoldHolding,
		domain.FormatAmount(user.GoldHolding.Mul(price.PricePerGram), currency))))

	var sideStr, gramsStr string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Buy or sell").
			Options(huh.NewOption("Buy", domain.SideBuy.String()), huh.NewOption("Sell", domain.SideSell.String())).
			Value(&sideStr),
		huh.NewInput().Title("Quantity (grams)").Value(&gramsStr).Validate(validatePositive),
	)).Run(); err != nil {
		return err
	}

	side, err := domain.ParseSide(sideStr)
	if err != nil {
		return err
	}
	grams, err := parsePositive(gramsStr)
	if err != nil {
		return err
	}

	amount := grams.Mul(price.PricePerGram)
	ok, err := a.confirm(fmt.Sprintf("%s %sg of gold\nAmount: %s", titleCase(side.String()), grams,
		domain.FormatAmount(amount, currency)), "Confirm "+side.String()+"?")
	if err != nil || !ok {
		return err
	}

	return a.process("Processing gold "+side.String()+"...", func() (domain.Transaction, error) {
		return a.bank.TradeGold(ctx, side, grams)
	})
}

func (a *App) stocks(ctx context.Context) error {
	quotes, err := a.bank.Quotes(ctx)
	if err != nil {
		return err
	}
	holdings, err := a.bank.Holdings(ctx)
	if err != nil {
		return err
	}

	currency := a.bank.Currency()
	a.screen("STOCKS")
	a.println(Quotes(quotes, currency))
	a.println(stepStyle.Render("YOUR PORTFOLIO"))
	a.println(Holdings(holdings, currency))

	var term string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Search stocks").Description("Symbol or name, empty for all").Value(&term),
	)).Run(); err != nil {
		return err
	}

	found := market.Filter(quotes, term)
	if len(found) == 0 {
		return errNoStocks
	}

	options := make([]huh.Option[string], 0, len(found))
	for _, q := range found {
		options = append(options, huh.NewOption(
			fmt.Sprintf("%-9s %s  %s", q.Symbol, domain.FormatAmount(q.Price, currency), q.Name), q.Symbol))
	}

	var symbol, sideStr, qtyStr string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Stock").Options(options...).Value(&symbol),
		huh.NewSelect[string]().
			Title("Buy or sell").
			Options(huh.NewOption("Buy", domain.SideBuy.String()), huh.NewOption("Sell", domain.SideSell.String())).
			Value(&sideStr),
		huh.NewInput().Title("Quantity (shares)").Value(&qtyStr).Validate(validateWhole),
	)).Run(); err != nil {
		return err
	}

	side, err := domain.ParseSide(sideStr)
	if err != nil {
		return err
	}
	qty, err := parsePositive(qtyStr)
	if err != nil {
		return err
	}

	var price domain.StockQuote
	for _, q := range found {
		if q.Symbol == symbol {
			price = q
		}
	}

	ok, err := a.confirm(fmt.Sprintf("%s %s %s @ %s\nAmount: %s", titleCase(side.String()), qty, symbol,
		domain.FormatAmount(price.Price, currency), domain.FormatAmount(qty.Mul(price.Price), currency)),
		"Confirm "+side.String()+"?")
	if err != nil || !ok {
		return err
	}

	return a.process("Placing order...", func() (domain.Transaction, error) {
		return a.bank.TradeStock(ctx, side, symbol, qty)
	})
}

func (a *App) profile(ctx context.Context) error {
	user, err := a.bank.Account(ctx)
	if err != nil {
		return err
	}

	a.screen("PROFILE")
	a.println(Profile(user))

	name, email, mobile := user.Name, user.Email, user.Mobile
	address, dob := user.Address, user.DOB
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full name").Value(&name),
		huh.NewInput().Title("Email").Value(&email),
		huh.NewInput().Title("Mobile").Value(&mobile),
		huh.NewInput().Title("Address").Value(&address),
		huh.NewInput().Title("Date of birth").Description("YYYY-MM-DD").Value(&dob),
	)).Run(); err != nil {
		return err
	}

	var (
		updated domain.User
		opErr   error
	)
	err = spinner.New().
		Title("Saving profile...").
		Action(func() {
			time.Sleep(a.latency / 2)
			updated, opErr = a.bank.UpdateProfile(ctx, ledger.ProfileUpdate{
				Name:    name,
				Email:   email,
				Mobile:  mobile,
				Address: &address,
				DOB:     &dob,
			})
		}).
		Run()
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}

	a.println(okStyle.Render("✓ Profile updated successfully"))
	a.println(Profile(updated))
	a.pause()
	return nil
}

var errNoStocks = &ledger.ValidationError{Reason: ledger.ReasonUnknownSymbol, Message: "No stocks found"}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
