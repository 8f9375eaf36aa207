package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the product a transaction belongs to.
type TransactionType string

const (
	TransactionTypeBill  TransactionType = "bill"
	TransactionTypeUPI   TransactionType = "upi"
	TransactionTypeGold  TransactionType = "gold"
	TransactionTypeStock TransactionType = "stock"
)

// TransactionStatus is the settlement state of a transaction.
// Ledger operations only ever create successful transactions; the other values
// exist so that records written by other tools still decode.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
	TransactionStatusPending TransactionStatus = "pending"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Date        time.Time         `json:"date"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	From        string            `json:"from,omitempty"`
	To          string            `json:"to,omitempty"`
	// BalanceBefore and BalanceAfter are absent on seed entries.
	BalanceBefore *decimal.Decimal `json:"balanceBefore,omitempty"`
	BalanceAfter  *decimal.Decimal `json:"balanceAfter,omitempty"`
}

// IsDebit reports whether the transaction reduced the balance.
// Entries without balance snapshots are treated as debits, which matches every seed entry.
func (t Transaction) IsDebit() bool {
	if t.BalanceBefore == nil || t.BalanceAfter == nil {
		return true
	}
	return t.BalanceAfter.LessThan(*t.BalanceBefore)
}

// Prepend returns a new log with tx placed first. The input slice is not modified.
func Prepend(log []Transaction, tx Transaction) []Transaction {
	out := make([]Transaction, 0, len(log)+1)
	out = append(out, tx)
	out = append(out, log...)
	return out
}

// SeedTransactions returns the demo history relative to now, newest first.
func SeedTransactions(now time.Time) []Transaction {
	return []Transaction{
		{
			ID:          "TXN001",
			Type:        TransactionTypeUPI,
			Amount:      decimal.NewFromInt(500),
			Date:        now.Add(-2 * time.Hour),
			Status:      TransactionStatusSuccess,
			Description: "UPI Payment to Priya Sharma",
			From:        "rajesh@bank",
			To:          "priya@bank",
		},
		{
			ID:          "TXN002",
			Type:        TransactionTypeBill,
			Category:    "Electricity",
			Amount:      decimal.NewFromInt(1250),
			Date:        now.Add(-24 * time.Hour),
			Status:      TransactionStatusSuccess,
			Description: "Electricity Bill Payment",
			To:          "BESCOM",
		},
		{
			ID:          "TXN003",
			Type:        TransactionTypeGold,
			Amount:      decimal.NewFromInt(6500),
			Date:        now.Add(-48 * time.Hour),
			Status:      TransactionStatusSuccess,
			Description: "Digital Gold Purchase - 10g",
		},
	}
}
