// Package domain defines core data structures used throughout the bank simulator.
package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultOpeningBalance is the balance of a freshly seeded account.
var DefaultOpeningBalance = decimal.NewFromInt(125000)

// DefaultGoldHolding is the gold (in grams) of a freshly seeded account.
var DefaultGoldHolding = decimal.RequireFromString("25.5")

// User is the single account holder of the simulator.
type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Mobile       string          `json:"mobile"`
	Address      string          `json:"address"`
	DOB          string          `json:"dob"`
	ProfilePhoto string          `json:"profilePhoto,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	// GoldHolding is measured in grams.
	GoldHolding decimal.Decimal `json:"goldHolding"`
}

// DefaultUser returns the demo account used when no user record is persisted yet.
func DefaultUser() User {
	return User{
		ID:          "1",
		Username:    "demo@bank.com",
		Name:        "Rajesh Kumar",
		Email:       "rajesh.kumar@email.com",
		Mobile:      "+91 98765 43210",
		Address:     "123, MG Road, Bangalore, Karnataka - 560001",
		DOB:         "1990-05-15",
		Balance:     DefaultOpeningBalance,
		GoldHolding: DefaultGoldHolding,
	}
}

// CanDebit reports whether amount can be taken from the balance without driving it negative.
func (u User) CanDebit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(u.Balance)
}

// CanSellGold reports whether the user holds at least grams of gold.
func (u User) CanSellGold(grams decimal.Decimal) bool {
	return grams.LessThanOrEqual(u.GoldHolding)
}
