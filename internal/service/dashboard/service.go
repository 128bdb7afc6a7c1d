package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository"
)

// RecentProductions is how many production records the dashboard shows.
const RecentProductions = 5

// BillSource reports the unpaid bills of a user.
type BillSource interface {
	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
}

// Service assembles the landing page summary.
type Service struct {
	records repository.RecordRepository
	bills   BillSource
	logger  *zap.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewService wires a dashboard service. bills may be nil; loc decides which
// calendar day is "today".
func NewService(records repository.RecordRepository, bills BillSource, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records: records,
		bills:   bills,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

// Summary loads today's figures for the user. Independent lookups run
// concurrently; the first failure cancels the rest.
func (s *Service) Summary(ctx context.Context, userID string) (models.DashboardSummary, error) {
	today := models.DayStart(models.WallClockIn(s.now(), s.loc))
	endOfDay := today.Add(24*time.Hour - time.Nanosecond)

	var (
		out           models.DashboardSummary
		todayExpenses float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.records.ListProductions(gctx, userID, today, endOfDay)
		if err != nil {
			return fmt.Errorf("today's production: %w", err)
		}
		if len(rows) > 0 {
			out.TodayProduction = &rows[0]
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.records.ListSales(gctx, userID, today, endOfDay)
		if err != nil {
			return fmt.Errorf("today's sale: %w", err)
		}
		if len(rows) > 0 {
			out.TodaySale = &rows[0]
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.records.RecentProductions(gctx, userID, RecentProductions)
		if err != nil {
			return fmt.Errorf("recent productions: %w", err)
		}
		if rows == nil {
			rows = []models.MilkProduction{}
		}
		out.RecentProductions = rows
		return nil
	})
	g.Go(func() error {
		total, err := s.records.TotalExpenses(gctx)
		if err != nil {
			return fmt.Errorf("total expenses: %w", err)
		}
		out.TotalExpenses = total
		return nil
	})
	g.Go(func() error {
		rows, err := s.records.ListExpenses(gctx, userID, today, endOfDay)
		if err != nil {
			return fmt.Errorf("today's expenses: %w", err)
		}
		for _, e := range rows {
			todayExpenses += e.Amount
		}
		return nil
	})
	if s.bills != nil {
		g.Go(func() error {
			bills, err := s.bills.Notifications(gctx, userID)
			if err != nil {
				return fmt.Errorf("pending bills: %w", err)
			}
			out.PendingBills = len(bills)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard summary failed", zap.String("user_id", userID), zap.Error(err))
		return models.DashboardSummary{}, err
	}

	var revenue float64
	if out.TodaySale != nil {
		revenue = out.TodaySale.SaleAmount
	}
	out.TodayNetProfit = revenue - todayExpenses
	return out, nil
}
