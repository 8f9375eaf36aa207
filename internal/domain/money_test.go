package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹3,850.25", FormatAmount(decimal.RequireFromString("3850.25"), DefaultCurrency))
	assert.Equal(t, "₹125,000.00", FormatAmount(decimal.NewFromInt(125000), DefaultCurrency))
	assert.Equal(t, "12.50", FormatAmount(decimal.RequireFromString("12.5"), "NOPE"))
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("buy")
	assert.NoError(t, err)
	assert.Equal(t, SideBuy, side)

	side, err = ParseSide("sell")
	assert.NoError(t, err)
	assert.Equal(t, SideSell, side)
	assert.Equal(t, "sell", side.String())

	_, err = ParseSide("hold")
	assert.Error(t, err)
}

func TestSeedTransactions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := SeedTransactions(now)

	assert.Len(t, seed, 3)
	for i := 1; i < len(seed); i++ {
		assert.True(t, seed[i-1].Date.After(seed[i].Date), "seed log must be newest first")
	}
	for _, tx := range seed {
		assert.Equal(t, TransactionStatusSuccess, tx.Status)
		assert.True(t, tx.IsDebit())
	}
}

func TestPrepend(t *testing.T) {
	log := []Transaction{{ID: "b"}, {ID: "c"}}
	out := Prepend(log, Transaction{ID: "a"})

	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Len(t, log, 2)
	assert.Equal(t, "b", log[0].ID)
}

func TestUser_Checks(t *testing.T) {
	u := DefaultUser()

	assert.True(t, u.CanDebit(decimal.NewFromInt(125000)))
	assert.False(t, u.CanDebit(decimal.NewFromInt(125001)))
	assert.True(t, u.CanSellGold(decimal.RequireFromString("25.5")))
	assert.False(t, u.CanSellGold(decimal.NewFromInt(26)))
}
