package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioLot_Add(t *testing.T) {
	tests := []struct {
		name        string
		lot         PortfolioLot
		quantity    decimal.Decimal
		price       decimal.Decimal
		expectedQty decimal.Decimal
		expectedAvg decimal.Decimal
	}{
		{
			name:        "same price keeps average",
			lot:         PortfolioLot{Symbol: "TCS", Quantity: decimal.NewFromInt(5), AvgPrice: decimal.NewFromInt(1000)},
			quantity:    decimal.NewFromInt(5),
			price:       decimal.NewFromInt(1000),
			expectedQty: decimal.NewFromInt(10),
			expectedAvg: decimal.NewFromInt(1000),
		},
		{
			name:     "higher price raises average",
			lot:      PortfolioLot{Symbol: "TCS", Quantity: decimal.NewFromInt(5), AvgPrice: decimal.NewFromInt(1000)},
			quantity: decimal.NewFromInt(5),
			price:    decimal.NewFromInt(1200),
			// (1000*5 + 1200*5) / 10 = 1100
			expectedQty: decimal.NewFromInt(10),
			expectedAvg: decimal.NewFromInt(1100),
		},
		{
			name:     "uneven quantities",
			lot:      PortfolioLot{Symbol: "ITC", Quantity: decimal.NewFromInt(3), AvgPrice: decimal.NewFromInt(400)},
			quantity: decimal.NewFromInt(1),
			price:    decimal.NewFromInt(500),
			// (400*3 + 500*1) / 4 = 425
			expectedQty: decimal.NewFromInt(4),
			expectedAvg: decimal.NewFromInt(425),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := tt.lot.Add(tt.quantity, tt.price)
			assert.Equal(t, tt.lot.Symbol, merged.Symbol)
			assert.True(t, tt.expectedQty.Equal(merged.Quantity), "expected qty %s, got %s", tt.expectedQty, merged.Quantity)
			assert.True(t, tt.expectedAvg.Equal(merged.AvgPrice), "expected avg %s, got %s", tt.expectedAvg, merged.AvgPrice)
		})
	}
}

func TestNewPortfolioLot_Validation(t *testing.T) {
	_, err := NewPortfolioLot("", decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewPortfolioLot("TCS", decimal.Zero, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewPortfolioLot("TCS", decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.Error(t, err)

	lot, err := NewPortfolioLot("TCS", decimal.NewFromInt(2), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, lot.Value(decimal.NewFromInt(15)).Equal(decimal.NewFromInt(30)))
}

func TestPortfolio_BuySellCycle(t *testing.T) {
	var p Portfolio

	p, err := p.Buy("TCS", decimal.NewFromInt(5), decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.Len(t, p, 1)

	p, err = p.Buy("TCS", decimal.NewFromInt(5), decimal.NewFromInt(1200))
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.True(t, p[0].AvgPrice.Equal(decimal.NewFromInt(1100)))

	p, err = p.Buy("INFY", decimal.NewFromInt(1), decimal.NewFromInt(1650))
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, "INFY", p[1].Symbol, "new symbols are appended")

	p, err = p.Sell("TCS", decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, p.Held("TCS").Equal(decimal.NewFromInt(6)))
	lot, ok := p.Find("TCS")
	require.True(t, ok)
	assert.True(t, lot.AvgPrice.Equal(decimal.NewFromInt(1100)), "sell must not change average price")

	p, err = p.Sell("TCS", decimal.NewFromInt(6))
	require.NoError(t, err)
	_, ok = p.Find("TCS")
	assert.False(t, ok, "lot must be removed at zero quantity")
	assert.Len(t, p, 1)
	assert.True(t, p.Held("TCS").IsZero())
}

func TestPortfolio_SellErrors(t *testing.T) {
	p := Portfolio{{Symbol: "TCS", Quantity: decimal.NewFromInt(2), AvgPrice: decimal.NewFromInt(100)}}

	_, err := p.Sell("INFY", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrLotNotFound)

	_, err = p.Sell("TCS", decimal.NewFromInt(3))
	assert.ErrorIs(t, err, ErrLotTooSmall)

	assert.True(t, p.Held("TCS").Equal(decimal.NewFromInt(2)), "failed sell must not touch the receiver")
}

func TestPortfolio_BuyDoesNotAliasReceiver(t *testing.T) {
	original := Portfolio{{Symbol: "TCS", Quantity: decimal.NewFromInt(1), AvgPrice: decimal.NewFromInt(100)}}

	updated, err := original.Buy("TCS", decimal.NewFromInt(1), decimal.NewFromInt(300))
	require.NoError(t, err)

	assert.True(t, original[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, updated[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, updated[0].AvgPrice.Equal(decimal.NewFromInt(200)))
}
