package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
)

type stubBills struct {
	n   int
	err error
}

func (s stubBills) Notifications(context.Context, string) ([]models.Notification, error) {
	return make([]models.Notification, s.n), s.err
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	for d := 1; d <= 7; d++ {
		require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: string(rune('a' + d)), UserID: "u1", Date: day(d), MilkKg: float64(10 * d)}))
	}
	require.NoError(t, store.CreateSale(ctx, models.MilkSale{ID: "s1", UserID: "u1", Date: day(7), MilkKg: 60, SaleAmount: 9000}))
	require.NoError(t, store.CreateExpenses(ctx, []models.Expense{
		{ID: "e1", UserID: "u1", Date: day(7), Type: models.ExpensePetrol, Amount: 1500},
		{ID: "e2", UserID: "u1", Date: day(6), Type: models.ExpenseFarm, Amount: 500},
		{ID: "e3", UserID: "u2", Date: day(7), Type: models.ExpenseFarm, Amount: 250},
	}))
}

func TestSummary(t *testing.T) {
	store := memory.New()
	seed(t, store)
	svc := NewService(store, stubBills{n: 2}, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 7, 19, 45, 0, 0, time.UTC) }

	got, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	require.NotNil(t, got.TodayProduction)
	assert.Equal(t, 70.0, got.TodayProduction.MilkKg)
	require.NotNil(t, got.TodaySale)
	assert.Equal(t, 9000.0, got.TodaySale.SaleAmount)
	require.Len(t, got.RecentProductions, RecentProductions)
	assert.Equal(t, day(7), got.RecentProductions[0].Date)
	assert.Equal(t, 2250.0, got.TotalExpenses)
	assert.Equal(t, 7500.0, got.TodayNetProfit)
	assert.Equal(t, 2, got.PendingBills)
}

func TestSummary_EmptyDay(t *testing.T) {
	svc := NewService(memory.New(), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC) }

	got, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, got.TodayProduction)
	assert.Nil(t, got.TodaySale)
	assert.NotNil(t, got.RecentProductions)
	assert.Zero(t, got.TodayNetProfit)
}

func TestSummary_PropagatesFailure(t *testing.T) {
	svc := NewService(memory.New(), stubBills{err: errors.New("ledger offline")}, nil, nil)

	_, err := svc.Summary(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending bills")
}

func TestSummary_TodayFollowsFarmTimezone(t *testing.T) {
	store := memory.New()
	seed(t, store)
	svc := NewService(store, nil, time.FixedZone("LINT", 14*60*60), nil)
	// June 6 12:00 UTC is June 7 at the farm.
	svc.now = func() time.Time { return time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC) }

	got, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	require.NotNil(t, got.TodayProduction)
	assert.Equal(t, 70.0, got.TodayProduction.MilkKg)
	require.NotNil(t, got.TodaySale)
	assert.Equal(t, 9000.0, got.TodaySale.SaleAmount)
}
