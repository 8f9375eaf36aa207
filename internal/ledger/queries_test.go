package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
	"github.com/vadiminshakov/minibank/internal/storage/records"
)

func TestService_RecentTransactions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	for i := 0; i < 4; i++ {
		_, err := svc.Transfer(ctx, TransferRequest{Method: TransferMobile, Recipient: "9876543210", Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}

	recent, err := svc.RecentTransactions(ctx, DashboardTransactions)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "TXN001", recent[4].ID)

	all, err := svc.RecentTransactions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, "TXN003", all[6].ID, "oldest seed entry is last")
}

func TestService_HoldingsAndValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	value, err := svc.PortfolioValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.IsZero(), "empty portfolio is worth nothing")

	_, err = svc.BuyStock(ctx, "INFY", decimal.NewFromInt(2))
	require.NoError(t, err)
	_, err = svc.BuyStock(ctx, "ITC", decimal.NewFromInt(10))
	require.NoError(t, err)

	holdings, err := svc.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "INFY", holdings[0].Lot.Symbol, "first purchase first")
	assert.Equal(t, "Infosys Limited", holdings[0].Name)
	assert.True(t, holdings[0].Value.Equal(decimal.RequireFromString("3301.5")), "got %s", holdings[0].Value)
	assert.True(t, holdings[0].ProfitLoss.IsZero(), "static quotes do not move")

	value, err = svc.PortfolioValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("7559.5")), "got %s", value)
}

func TestService_HoldingsProfitLoss(t *testing.T) {
	ctx := context.Background()
	store := records.New(kv.NewMemoryStore())
	lot, err := domain.NewPortfolioLot("TCS", decimal.NewFromInt(2), decimal.NewFromInt(4000))
	require.NoError(t, err)
	require.NoError(t, store.PutPortfolio(ctx, domain.Portfolio{
		lot,
		{Symbol: "GONE", Quantity: decimal.NewFromInt(1), AvgPrice: decimal.NewFromInt(1)},
	}))

	svc := newService(t, store, staticMarket(t))
	holdings, err := svc.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 1, "lots without a quote are skipped")

	h := holdings[0]
	assert.True(t, h.Invested.Equal(decimal.NewFromInt(8000)))
	assert.True(t, h.Value.Equal(decimal.RequireFromString("7700.5")))
	assert.True(t, h.ProfitLoss.Equal(decimal.RequireFromString("-299.5")), "got %s", h.ProfitLoss)
	assert.Equal(t, "-3.74", h.ProfitLossPercent.StringFixed(2))
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	store := records.New(kv.NewMemoryStore(), records.WithClock(clock))

	m := &mockMarket{}
	m.On("GoldPrice", mock.Anything).Return(domain.GoldPrice{PricePerGram: decimal.NewFromInt(7000)}, nil)
	m.On("Quotes", mock.Anything).Return([]domain.StockQuote{}, nil)

	svc := newService(t, store, m)
	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Rajesh Kumar", summary.User.Name)
	assert.True(t, summary.GoldPrice.Equal(decimal.NewFromInt(7000)))
	assert.True(t, summary.GoldValue.Equal(decimal.NewFromInt(178500)), "got %s", summary.GoldValue)
	assert.True(t, summary.PortfolioValue.IsZero())
	assert.Len(t, summary.Recent, 3)
	m.AssertExpectations(t)
}

func TestServices_Catalogue(t *testing.T) {
	services := Services()
	require.Len(t, services, 4)

	titles := make([]string, 0, len(services))
	for _, s := range services {
		titles = append(titles, s.Title)
		assert.Len(t, s.Providers, 4)
	}
	assert.Equal(t, []string{"Electricity", "Water", "Mobile Recharge", "Internet"}, titles)

	services[0].Providers[0] = "changed"
	assert.Equal(t, "BESCOM", Services()[0].Providers[0], "catalogue is returned by copy")
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t)
	before := take(t, store)

	address := "221B Residency Road"
	user, err := svc.UpdateProfile(ctx, ProfileUpdate{
		Name:    "Rajesh K",
		Email:   "rk@example.com",
		Mobile:  "+91 98765 43210",
		Address: &address,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rajesh K", user.Name)
	assert.Equal(t, "+91 98765 43210", user.Mobile)
	assert.Equal(t, address, user.Address)
	assert.Equal(t, before.user.DOB, user.DOB, "unset optional field keeps its value")

	after := take(t, store)
	assert.Equal(t, "rk@example.com", after.user.Email)
	assertUnchanged(t, before, after)
}

func TestService_UpdateProfileValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		update ProfileUpdate
		reason Reason
	}{
		{name: "missing name", update: ProfileUpdate{Email: "a@b.co", Mobile: "9876543210"}, reason: ReasonMissingField},
		{name: "missing mobile", update: ProfileUpdate{Name: "A", Email: "a@b.co"}, reason: ReasonMissingField},
		{name: "short mobile", update: ProfileUpdate{Name: "A", Email: "a@b.co", Mobile: "98765"}, reason: ReasonInvalidMobile},
		{name: "mobile starting with 5", update: ProfileUpdate{Name: "A", Email: "a@b.co", Mobile: "5876543210"}, reason: ReasonInvalidMobile},
		{name: "email without domain dot", update: ProfileUpdate{Name: "A", Email: "a@b", Mobile: "9876543210"}, reason: ReasonInvalidEmail},
		{name: "email with space", update: ProfileUpdate{Name: "A", Email: "a b@c.co", Mobile: "9876543210"}, reason: ReasonInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newFixture(t)
			before := take(t, store)

			_, err := svc.UpdateProfile(ctx, tt.update)
			require.Error(t, err)
			assert.True(t, HasReason(err, tt.reason), "got %v", err)

			after := take(t, store)
			assert.Equal(t, before.user, after.user)
		})
	}
}
