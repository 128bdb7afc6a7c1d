package reporting

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
)

type stubRenderer struct {
	got models.ReportData
	err error
}

func (r *stubRenderer) Render(w io.Writer, data models.ReportData) error {
	r.got = data
	if r.err != nil {
		return r.err
	}
	_, err := io.WriteString(w, "%PDF-stub "+data.Title)
	return err
}

type stubBills struct {
	notifications []models.Notification
}

func (b stubBills) Notifications(context.Context, string) ([]models.Notification, error) {
	return b.notifications, nil
}

func newTestService(t *testing.T, now time.Time) (*Service, *memory.Store, *stubRenderer) {
	t.Helper()
	store := memory.New()
	renderer := &stubRenderer{}
	svc := NewService(store, store, stubBills{notifications: []models.Notification{{CustomerID: "c1"}}}, renderer, nil, nil)
	svc.now = func() time.Time { return now }
	return svc, store, renderer
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 1, 25, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "expenses-monthly-2025-01-25.pdf", Filename(models.ReportExpense, models.PeriodMonthly, now))
	assert.Equal(t, "milk-production-weekly-2025-01-25.pdf", Filename(models.ReportProduction, models.PeriodWeekly, now))
	assert.Equal(t, "milk-sale-3-month-2025-01-25.pdf", Filename(models.ReportSale, models.PeriodThreeMonth, now))
}

func TestBuildReport_Expenses(t *testing.T) {
	ctx := context.Background()
	now := day(2025, 1, 25)
	svc, store, _ := newTestService(t, now)

	require.NoError(t, store.CreateExpenses(ctx, []models.Expense{
		{ID: "a", UserID: "u1", Date: day(2025, 1, 5), Amount: 20, Type: models.ExpensePetrol},
		{ID: "b", UserID: "u1", Date: day(2025, 1, 20), Amount: 30, Type: models.ExpenseFarm},
		{ID: "c", UserID: "u2", Date: day(2025, 1, 20), Amount: 999, Type: models.ExpenseFarm},
	}))

	data, err := svc.BuildReport(ctx, "u1", models.ReportExpense, models.PeriodMonthly)
	require.NoError(t, err)

	assert.Equal(t, "Monthly Expenses Report", data.Title)
	assert.Equal(t, day(2024, 12, 25), data.Window.Start)
	assert.Equal(t, now, data.Window.End)
	assert.Equal(t, "expenses-monthly-2025-01-25.pdf", data.Filename)
	require.NotNil(t, data.Expenses)
	assert.Equal(t, 50.0, data.Expenses.Total)
	assert.Equal(t, 2, data.Count())
	assert.Nil(t, data.Sales)
}

func TestBuildReport_EmptyWindow(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, day(2025, 1, 25))

	require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: "p", UserID: "u1", Date: day(2024, 6, 1), MilkKg: 10}))

	data, err := svc.BuildReport(ctx, "u1", models.ReportProduction, models.PeriodWeekly)
	assert.ErrorIs(t, err, models.ErrNoReportData)
	assert.Equal(t, 0, data.Count())
}

func TestBuildReport_UnknownPeriodUsesMonthly(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, day(2025, 1, 25))
	require.NoError(t, store.CreateSale(ctx, models.MilkSale{ID: "s", UserID: "u1", Date: day(2025, 1, 1), MilkKg: 0, SaleAmount: 100}))

	data, err := svc.BuildReport(ctx, "u1", models.ReportSale, models.Period("fortnight"))
	require.NoError(t, err)

	assert.Equal(t, "Monthly Milk Sales Report", data.Title)
	assert.Equal(t, day(2024, 12, 25), data.Window.Start)
	assert.Equal(t, "milk-sale-fortnight-2025-01-25.pdf", data.Filename)
	assert.Equal(t, 100.0, data.Sales.AveragePrice)
}

func TestBuildReport_UnknownKind(t *testing.T) {
	svc, _, _ := newTestService(t, day(2025, 1, 25))
	_, err := svc.BuildReport(context.Background(), "u1", models.ReportKind("cows"), models.PeriodWeekly)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRenderPDF(t *testing.T) {
	ctx := context.Background()
	svc, store, renderer := newTestService(t, day(2025, 1, 25))
	require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: "p", UserID: "u1", Date: day(2025, 1, 24), MilkKg: 42}))

	data, pdf, err := svc.RenderPDF(ctx, "u1", models.ReportProduction, models.PeriodWeekly)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-stub Weekly Milk Production Report", string(pdf))
	assert.Equal(t, data.Title, renderer.got.Title)
	assert.Equal(t, 42.0, renderer.got.Production.TotalMilk)
}

func TestRenderPDF_RendererFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, renderer := newTestService(t, day(2025, 1, 25))
	renderer.err = errors.New("font missing")
	require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: "p", UserID: "u1", Date: day(2025, 1, 24), MilkKg: 42}))

	_, _, err := svc.RenderPDF(ctx, "u1", models.ReportProduction, models.PeriodWeekly)
	assert.ErrorContains(t, err, "font missing")
}

func TestBuildDigest(t *testing.T) {
	ctx := context.Background()
	now := day(2025, 1, 25)
	svc, store, _ := newTestService(t, now)

	require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: "p1", UserID: "u1", Date: day(2025, 1, 24), MilkKg: 120}))
	require.NoError(t, store.CreateProduction(ctx, models.MilkProduction{ID: "p0", UserID: "u1", Date: day(2025, 1, 2), MilkKg: 999}))
	require.NoError(t, store.CreateSale(ctx, models.MilkSale{ID: "s1", UserID: "u1", Date: day(2025, 1, 23), MilkKg: 100, SaleAmount: 9000}))
	require.NoError(t, store.CreateExpenses(ctx, []models.Expense{{ID: "e1", UserID: "u1", Date: day(2025, 1, 22), Amount: 1500, Type: models.ExpensePetrol}}))

	digest, err := svc.BuildDigest(ctx, "u1", models.PeriodWeekly)
	require.NoError(t, err)

	assert.Equal(t, 120.0, digest.MilkKg)
	assert.Equal(t, 100.0, digest.SalesKg)
	assert.Equal(t, 9000.0, digest.SalesAmount)
	assert.Equal(t, 1500.0, digest.Expenses)
	assert.Equal(t, 7500.0, digest.Profit)
	assert.Equal(t, 1, digest.UnpaidBills)
	assert.Len(t, store.Digests(), 1)

	msg := FormatDigest(digest)
	assert.Contains(t, msg, "Weekly farm summary (2025-01-18 to 2025-01-25)")
	assert.Contains(t, msg, "Milk produced: 120.00 kg")
	assert.Contains(t, msg, "Profit: Rs. 7500.00")
	assert.Contains(t, msg, "Unpaid bills: 1")
}

func TestFormatDigest_OmitsZeroUnpaidBills(t *testing.T) {
	msg := FormatDigest(models.Digest{Period: models.PeriodWeekly, Start: day(2025, 1, 18), End: day(2025, 1, 25)})
	assert.NotContains(t, msg, "Unpaid bills")
}
