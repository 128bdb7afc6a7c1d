package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_ListExpensesIsInclusiveAndSorted(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateExpenses(ctx, []models.Expense{
		{ID: "c", UserID: "u1", Date: day(10), Amount: 3},
		{ID: "a", UserID: "u1", Date: day(1), Amount: 1},
		{ID: "b", UserID: "u1", Date: day(5), Amount: 2},
		{ID: "x", UserID: "u2", Date: day(5), Amount: 99},
		{ID: "out", UserID: "u1", Date: day(11), Amount: 4},
	}))

	got, err := s.ListExpenses(ctx, "u1", day(1), day(10))
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	total, err := s.TotalExpenses(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 109.0, total, 1e-9)
}

func TestStore_RecentSalesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 1; i <= 4; i++ {
		require.NoError(t, s.CreateSale(ctx, models.MilkSale{ID: string(rune('a' + i)), UserID: "u1", Date: day(i)}))
	}

	got, err := s.RecentSales(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, day(4), got[0].Date)
	assert.Equal(t, day(3), got[1].Date)
}

func TestStore_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.ErrorIs(t, s.UpdateSale(ctx, models.MilkSale{ID: "nope"}), models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, "nope"), models.ErrNotFound)
	_, err := s.GetProduction(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_EntriesSequenceAndCascade(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateCustomer(ctx, models.Customer{ID: "c1", UserID: "u1", Name: "Ali"}))
	require.NoError(t, s.CreateCustomer(ctx, models.Customer{ID: "c2", UserID: "u1", Name: "Sana"}))

	saved, err := s.AddEntries(ctx, []models.Entry{
		{ID: "e1", CustomerID: "c1", Date: day(3)},
		{ID: "e2", CustomerID: "c2", Date: day(1)},
		{ID: "e3", CustomerID: "c1", Date: day(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, []int64{saved[0].Seq, saved[1].Seq, saved[2].Seq})

	list, err := s.ListEntries(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e1", list[0].ID)
	assert.Equal(t, "e3", list[1].ID)

	require.NoError(t, s.DeleteCustomer(ctx, "c1"))
	list, err = s.ListEntries(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = s.GetEntry(ctx, "e2")
	assert.NoError(t, err)
}

func TestStore_SetPaymentStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateCustomer(ctx, models.Customer{ID: "c1", UserID: "u1"}))

	require.NoError(t, s.SetPaymentStatus(ctx, "c1", models.PaymentReceived))
	c, err := s.GetCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentReceived, c.PaymentStatus)

	assert.ErrorIs(t, s.SetPaymentStatus(ctx, "c9", models.PaymentPending), models.ErrNotFound)
}
