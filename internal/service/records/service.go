package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository"
)

// RecentLimit is how many records the listing endpoints return.
const RecentLimit = 10

// Service validates and stores expenses, milk productions and milk sales.
type Service struct {
	repo   repository.RecordRepository
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewService wires a records service. loc is the farm's timezone; dates are
// checked against the farm's current day.
func NewService(repo repository.RecordRepository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// CreateExpenses stores a batch of expenses for the user. The batch is
// rejected as a whole when any expense is invalid.
func (s *Service) CreateExpenses(ctx context.Context, userID string, expenses []models.Expense) ([]models.Expense, error) {
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: at least one expense is required", models.ErrInvalidInput)
	}
	now := models.WallClockIn(s.now(), s.loc)
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		if err := e.Validate(now); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		e.ID = uuid.NewString()
		e.UserID = userID
		e.CreatedAt = now
		out[i] = e
	}
	if err := s.repo.CreateExpenses(ctx, out); err != nil {
		return nil, fmt.Errorf("store expenses: %w", err)
	}
	s.logger.Info("expenses saved", zap.String("user_id", userID), zap.Int("count", len(out)))
	return out, nil
}

// RecentExpenses lists the user's newest expenses.
func (s *Service) RecentExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.repo.RecentExpenses(ctx, userID, RecentLimit)
}

// DeleteExpense removes one of the user's expenses.
func (s *Service) DeleteExpense(ctx context.Context, userID, id string) error {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return models.ErrForbidden
	}
	return s.repo.DeleteExpense(ctx, id)
}

// CreateProduction records the milk collected on one day.
func (s *Service) CreateProduction(ctx context.Context, userID string, p models.MilkProduction) (models.MilkProduction, error) {
	now := models.WallClockIn(s.now(), s.loc)
	if err := p.Validate(now); err != nil {
		return models.MilkProduction{}, err
	}
	p.ID = uuid.NewString()
	p.UserID = userID
	p.CreatedAt = now
	if err := s.repo.CreateProduction(ctx, p); err != nil {
		return models.MilkProduction{}, fmt.Errorf("store milk production: %w", err)
	}
	s.logger.Info("milk production recorded", zap.String("user_id", userID), zap.Float64("milk_kg", p.MilkKg))
	return p, nil
}

// RecentProductions lists the user's newest production records.
func (s *Service) RecentProductions(ctx context.Context, userID string) ([]models.MilkProduction, error) {
	return s.repo.RecentProductions(ctx, userID, RecentLimit)
}

// DeleteProduction removes one of the user's production records.
func (s *Service) DeleteProduction(ctx context.Context, userID, id string) error {
	p, err := s.repo.GetProduction(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return models.ErrForbidden
	}
	return s.repo.DeleteProduction(ctx, id)
}

// CreateSale records a milk sale.
func (s *Service) CreateSale(ctx context.Context, userID string, sale models.MilkSale) (models.MilkSale, error) {
	now := models.WallClockIn(s.now(), s.loc)
	if err := sale.Validate(now); err != nil {
		return models.MilkSale{}, err
	}
	sale.ID = uuid.NewString()
	sale.UserID = userID
	sale.CreatedAt = now
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return models.MilkSale{}, fmt.Errorf("store milk sale: %w", err)
	}
	s.logger.Info("milk sale recorded", zap.String("user_id", userID), zap.Float64("sale_amount", sale.SaleAmount))
	return sale, nil
}

// UpdateSale replaces the editable fields of one of the user's sales.
func (s *Service) UpdateSale(ctx context.Context, userID, id string, in models.MilkSale) (models.MilkSale, error) {
	current, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return models.MilkSale{}, err
	}
	if current.UserID != userID {
		return models.MilkSale{}, models.ErrForbidden
	}
	if err := in.Validate(models.WallClockIn(s.now(), s.loc)); err != nil {
		return models.MilkSale{}, err
	}

	current.Date = in.Date
	current.MilkKg = in.MilkKg
	current.SaleAmount = in.SaleAmount
	current.Notes = in.Notes
	if err := s.repo.UpdateSale(ctx, current); err != nil {
		return models.MilkSale{}, fmt.Errorf("update milk sale: %w", err)
	}
	return current, nil
}

// RecentSales lists the user's newest sales.
func (s *Service) RecentSales(ctx context.Context, userID string) ([]models.MilkSale, error) {
	return s.repo.RecentSales(ctx, userID, RecentLimit)
}

// DeleteSale removes one of the user's sales.
func (s *Service) DeleteSale(ctx context.Context, userID, id string) error {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return err
	}
	if sale.UserID != userID {
		return models.ErrForbidden
	}
	return s.repo.DeleteSale(ctx, id)
}

// MonthlySaleTotals sums the user's sales of the current calendar month.
func (s *Service) MonthlySaleTotals(ctx context.Context, userID string) (models.MonthlySaleTotals, error) {
	now := models.WallClockIn(s.now(), s.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	sales, err := s.repo.ListSales(ctx, userID, start, end)
	if err != nil {
		return models.MonthlySaleTotals{}, fmt.Errorf("load milk sales: %w", err)
	}
	var totals models.MonthlySaleTotals
	for _, sale := range sales {
		totals.TotalMilk += sale.MilkKg
		totals.TotalAmount += sale.SaleAmount
	}
	return totals, nil
}
