package reporting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository"
)

// Renderer turns report data into a document.
type Renderer interface {
	Render(w io.Writer, data models.ReportData) error
}

// BillSource reports the unpaid bills of a user.
type BillSource interface {
	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
}

// Service builds period reports and scheduled digests.
type Service struct {
	records  repository.RecordRepository
	digests  repository.DigestRepository
	bills    BillSource
	renderer Renderer
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService wires a new reporting service instance. digests and bills may be
// nil. Windows end at the current wall clock in loc.
func NewService(records repository.RecordRepository, digests repository.DigestRepository, bills BillSource, renderer Renderer, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:  records,
		digests:  digests,
		bills:    bills,
		renderer: renderer,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// Filename is the download name of a rendered report.
func Filename(kind models.ReportKind, period models.Period, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s.pdf", kind.Slug(), period, now.Format(models.DateLayout))
}

// BuildReport loads the user's records of the given kind, keeps those inside
// the period window and summarizes them. A window without records yields
// models.ErrNoReportData.
func (s *Service) BuildReport(ctx context.Context, userID string, kind models.ReportKind, period models.Period) (models.ReportData, error) {
	now := models.WallClockIn(s.now(), s.loc)
	window := models.ResolveWindow(period, now)

	data := models.ReportData{
		Kind:        kind,
		Period:      period,
		Title:       models.ReportTitle(kind, period),
		Window:      window,
		UserID:      userID,
		GeneratedAt: now,
		Filename:    Filename(kind, period, now),
	}

	switch kind {
	case models.ReportExpense:
		rows, err := s.records.ListExpenses(ctx, userID, window.Start, window.End)
		if err != nil {
			return models.ReportData{}, fmt.Errorf("load expenses: %w", err)
		}
		summary := AggregateExpenses(rows, window)
		data.Expenses = &summary
	case models.ReportProduction:
		rows, err := s.records.ListProductions(ctx, userID, window.Start, window.End)
		if err != nil {
			return models.ReportData{}, fmt.Errorf("load milk productions: %w", err)
		}
		summary := AggregateProduction(rows, window)
		data.Production = &summary
	case models.ReportSale:
		rows, err := s.records.ListSales(ctx, userID, window.Start, window.End)
		if err != nil {
			return models.ReportData{}, fmt.Errorf("load milk sales: %w", err)
		}
		summary := AggregateSales(rows, window)
		data.Sales = &summary
	default:
		return models.ReportData{}, fmt.Errorf("%w: unknown report kind %q", models.ErrInvalidInput, kind)
	}

	if data.Count() == 0 {
		s.logger.Debug("empty report window",
			zap.String("kind", string(kind)),
			zap.String("period", string(period)),
			zap.Time("start", window.Start),
			zap.Time("end", window.End))
		return data, models.ErrNoReportData
	}
	return data, nil
}

// RenderPDF builds and renders a report in one go.
func (s *Service) RenderPDF(ctx context.Context, userID string, kind models.ReportKind, period models.Period) (models.ReportData, []byte, error) {
	data, err := s.BuildReport(ctx, userID, kind, period)
	if err != nil {
		return data, nil, err
	}
	if s.renderer == nil {
		return data, nil, errors.New("no report renderer configured")
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, data); err != nil {
		return data, nil, fmt.Errorf("render %s report: %w", kind, err)
	}
	return data, buf.Bytes(), nil
}

// BuildDigest summarizes the period window for the user and archives it.
func (s *Service) BuildDigest(ctx context.Context, userID string, period models.Period) (models.Digest, error) {
	now := models.WallClockIn(s.now(), s.loc)
	window := models.ResolveWindow(period, now)

	productions, err := s.records.ListProductions(ctx, userID, window.Start, window.End)
	if err != nil {
		return models.Digest{}, fmt.Errorf("load milk productions: %w", err)
	}
	sales, err := s.records.ListSales(ctx, userID, window.Start, window.End)
	if err != nil {
		return models.Digest{}, fmt.Errorf("load milk sales: %w", err)
	}
	expenses, err := s.records.ListExpenses(ctx, userID, window.Start, window.End)
	if err != nil {
		return models.Digest{}, fmt.Errorf("load expenses: %w", err)
	}

	production := AggregateProduction(productions, window)
	sale := AggregateSales(sales, window)
	expense := AggregateExpenses(expenses, window)

	digest := models.Digest{
		UserID:      userID,
		Period:      period,
		Start:       window.Start,
		End:         window.End,
		MilkKg:      production.TotalMilk,
		SalesKg:     sale.TotalMilk,
		SalesAmount: sale.TotalAmount,
		Expenses:    expense.Total,
		Profit:      sale.TotalAmount - expense.Total,
		CreatedAt:   now,
	}

	if s.bills != nil {
		bills, err := s.bills.Notifications(ctx, userID)
		if err != nil {
			s.logger.Warn("unpaid bill lookup failed", zap.Error(err))
		} else {
			digest.UnpaidBills = len(bills)
		}
	}

	if s.digests != nil {
		if err := s.digests.SaveDigest(ctx, digest); err != nil {
			s.logger.Error("failed to archive digest", zap.Error(err))
		}
	}

	return digest, nil
}

// FormatDigest renders a digest as a chat message.
func FormatDigest(d models.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s farm summary (%s to %s)\n", d.Period.Label(), d.Start.Format(models.DateLayout), d.End.Format(models.DateLayout))
	fmt.Fprintf(&b, "Milk produced: %.2f kg\n", d.MilkKg)
	fmt.Fprintf(&b, "Milk sold: %.2f kg for %s %.2f\n", d.SalesKg, models.CurrencyPrefix, d.SalesAmount)
	fmt.Fprintf(&b, "Expenses: %s %.2f\n", models.CurrencyPrefix, d.Expenses)
	fmt.Fprintf(&b, "Profit: %s %.2f", models.CurrencyPrefix, d.Profit)
	if d.UnpaidBills > 0 {
		fmt.Fprintf(&b, "\nUnpaid bills: %d", d.UnpaidBills)
	}
	return b.String()
}
