package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/ledger"
)

const dateLayout = "02 Jan 2006, 15:04"

// Receipt renders a completed transaction.
func Receipt(tx domain.Transaction, currency string) string {
	lines := []string{
		okStyle.Render("✓ " + successMessage(tx)),
		"",
		row("Transaction ID", tx.ID),
		row("Description", tx.Description),
		row("Amount", domain.FormatAmount(tx.Amount, currency)),
		row("Date", tx.Date.Local().Format(dateLayout)),
		row("Status", string(tx.Status)),
	}
	if tx.To != "" {
		lines = append(lines, row("To", tx.To))
	}
	if tx.BalanceAfter != nil {
		lines = append(lines, row("Balance", domain.FormatAmount(*tx.BalanceAfter, currency)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func successMessage(tx domain.Transaction) string {
	switch tx.Type {
	case domain.TransactionTypeBill:
		return "Bill payment completed successfully"
	case domain.TransactionTypeUPI:
		return "UPI transfer completed successfully"
	case domain.TransactionTypeGold:
		return "Gold transaction completed successfully"
	case domain.TransactionTypeStock:
		return "Stock transaction completed successfully"
	default:
		return "Transaction completed successfully"
	}
}

func row(label, value string) string {
	return mutedStyle.Render(fmt.Sprintf("%-15s", label)) + " " + value
}

// Dashboard renders the account summary with the latest transactions.
func Dashboard(s ledger.Summary, currency string) string {
	account := strings.Join([]string{
		headerStyle.Render("Welcome back, " + s.User.Name),
		row("Balance", domain.FormatAmount(s.User.Balance, currency)),
		row("Account", maskedAccount(s.User.ID)),
		row("Digital Gold", fmt.Sprintf("%sg ≈ %s", s.User.GoldHolding, domain.FormatAmount(s.GoldValue, currency))),
		row("Portfolio", domain.FormatAmount(s.PortfolioValue, currency)),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		account,
		stepStyle.Render("RECENT TRANSACTIONS"),
		History(s.Recent, currency),
	)
}

func maskedAccount(id string) string {
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "XXXX XXXX " + id
}

// History renders transactions newest first; debits are red, credits green.
func History(log []domain.Transaction, currency string) string {
	if len(log) == 0 {
		return mutedStyle.Render("No transactions yet")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("ID", "DATE", "DESCRIPTION", "AMOUNT", "STATUS")

	for _, tx := range log {
		amount := domain.FormatAmount(tx.Amount, currency)
		if tx.IsDebit() {
			amount = debitStyle.Render("-" + amount)
		} else {
			amount = creditStyle.Render("+" + amount)
		}
		t.Row(tx.ID, tx.Date.Local().Format(dateLayout), tx.Description, amount, string(tx.Status))
	}

	return t.String()
}

// Quotes renders the quote board.
func Quotes(quotes []domain.StockQuote, currency string) string {
	if len(quotes) == 0 {
		return mutedStyle.Render("No stocks found")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("SYMBOL", "NAME", "PRICE", "CHANGE")

	for _, q := range quotes {
		change := fmt.Sprintf("%s (%s%%)", signed(q.Change), signed(q.ChangePercent))
		if q.IsUp() {
			change = creditStyle.Render(change)
		} else {
			change = debitStyle.Render(change)
		}
		t.Row(q.Symbol, q.Name, domain.FormatAmount(q.Price, currency), change)
	}

	return t.String()
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

// Holdings renders the valued portfolio.
func Holdings(holdings []ledger.Holding, currency string) string {
	if len(holdings) == 0 {
		return mutedStyle.Render("No stocks in portfolio")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("SYMBOL", "SHARES", "AVG", "CURRENT", "VALUE", "P&L")

	total := decimal.Zero
	for _, h := range holdings {
		pnl := fmt.Sprintf("%s%s (%s%%)", sign(h.ProfitLoss), domain.FormatAmount(h.ProfitLoss.Abs(), currency), h.ProfitLossPercent.StringFixed(2))
		if h.ProfitLoss.IsNegative() {
			pnl = debitStyle.Render(pnl)
		} else {
			pnl = creditStyle.Render(pnl)
		}
		t.Row(
			h.Lot.Symbol,
			h.Lot.Quantity.String(),
			domain.FormatAmount(h.Lot.AvgPrice, currency),
			domain.FormatAmount(h.Price, currency),
			domain.FormatAmount(h.Value, currency),
			pnl,
		)
		total = total.Add(h.Value)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.String(),
		row("Portfolio value", domain.FormatAmount(total, currency)),
	)
}

func sign(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}

// Profile renders the user's personal details.
func Profile(u domain.User) string {
	return boxStyle.Render(strings.Join([]string{
		row("Name", u.Name),
		row("Email", u.Email),
		row("Mobile", u.Mobile),
		row("Address", u.Address),
		row("Date of birth", u.DOB),
		row("Login", u.Username),
	}, "\n"))
}

// Failure renders an error for the user.
func Failure(err error) string {
	return errorStyle.Render("✗ " + err.Error())
}
