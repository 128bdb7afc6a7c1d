package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository"
)

// CSVHeader is the first row of a customer export.
var CSVHeader = []string{"Date", "Quantity (KG)", "Price per KG", "Total Amount", "Notes"}

// Mirror receives a copy of every entry written to the ledger.
type Mirror interface {
	MirrorEntries(ctx context.Context, customer models.Customer, entries []models.Entry) error
}

// Service manages customers, their entries and the unpaid bill notifications.
type Service struct {
	repo   repository.LedgerRepository
	mirror Mirror
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewService wires a ledger service. mirror may be nil. The notification grace
// period follows the calendar in loc.
func NewService(repo repository.LedgerRepository, mirror Mirror, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		mirror: mirror,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// CreateCustomer registers a customer with a pending payment status.
func (s *Service) CreateCustomer(ctx context.Context, userID, name, notes string) (models.Customer, error) {
	c := models.Customer{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		Notes:         notes,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return models.Customer{}, err
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.logger.Info("customer created", zap.String("customer_id", c.ID), zap.String("user_id", userID))
	return c, nil
}

// customer loads a customer owned by userID. Customers of other users are
// reported as missing.
func (s *Service) customer(ctx context.Context, userID, customerID string) (models.Customer, error) {
	c, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return models.Customer{}, err
	}
	if c.UserID != userID {
		return models.Customer{}, models.ErrNotFound
	}
	return c, nil
}

// GetCustomer returns one customer with its totals.
func (s *Service) GetCustomer(ctx context.Context, userID, customerID string) (models.CustomerView, error) {
	c, err := s.customer(ctx, userID, customerID)
	if err != nil {
		return models.CustomerView{}, err
	}
	entries, err := s.repo.ListEntries(ctx, c.ID)
	if err != nil {
		return models.CustomerView{}, fmt.Errorf("list entries of %s: %w", c.ID, err)
	}
	return models.NewCustomerView(c, entries), nil
}

// ListCustomers returns the user's customers with totals recomputed from
// their entries.
func (s *Service) ListCustomers(ctx context.Context, userID string) ([]models.CustomerView, error) {
	customers, entries, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.CustomerView, 0, len(customers))
	for _, c := range customers {
		out = append(out, models.NewCustomerView(c, entries[c.ID]))
	}
	return out, nil
}

// DeleteCustomer removes a customer and all of its entries.
func (s *Service) DeleteCustomer(ctx context.Context, userID, customerID string) error {
	if _, err := s.customer(ctx, userID, customerID); err != nil {
		return err
	}
	return s.repo.DeleteCustomer(ctx, customerID)
}

// AddEntry appends one entry to the customer's ledger.
func (s *Service) AddEntry(ctx context.Context, userID, customerID string, in models.EntryInput) (models.Entry, error) {
	c, err := s.customer(ctx, userID, customerID)
	if err != nil {
		return models.Entry{}, err
	}
	entry, err := models.NewEntry(c.ID, in)
	if err != nil {
		return models.Entry{}, err
	}
	saved, err := s.append(ctx, c, []models.Entry{entry})
	if err != nil {
		return models.Entry{}, err
	}
	return saved[0], nil
}

// AddEntries appends a batch of rows. Rows without quantity or price are
// skipped; if none is left the call fails and nothing is stored.
func (s *Service) AddEntries(ctx context.Context, userID, customerID string, rows []models.EntryInput) ([]models.Entry, error) {
	c, err := s.customer(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		if !row.Complete() {
			continue
		}
		entry, err := models.NewEntry(c.ID, row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: add at least one entry with quantity and price", models.ErrInvalidInput)
	}
	return s.append(ctx, c, entries)
}

func (s *Service) append(ctx context.Context, c models.Customer, entries []models.Entry) ([]models.Entry, error) {
	now := s.now().UTC()
	for i := range entries {
		entries[i].ID = uuid.NewString()
		entries[i].CreatedAt = now
	}

	saved, err := s.repo.AddEntries(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("add entries for %s: %w", c.ID, err)
	}

	if s.mirror != nil {
		if err := s.mirror.MirrorEntries(ctx, c, saved); err != nil {
			s.logger.Warn("ledger mirror failed", zap.String("customer_id", c.ID), zap.Error(err))
		}
	}
	s.logger.Debug("ledger entries added", zap.String("customer_id", c.ID), zap.Int("count", len(saved)))
	return saved, nil
}

// ListEntries returns the customer's entries in insertion order.
func (s *Service) ListEntries(ctx context.Context, userID, customerID string) ([]models.Entry, error) {
	if _, err := s.customer(ctx, userID, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, customerID)
}

// DeleteEntry removes one entry.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if _, err := s.customer(ctx, userID, entry.CustomerID); err != nil {
		return err
	}
	return s.repo.DeleteEntry(ctx, entryID)
}

// TogglePaymentStatus flips the customer between pending and received and
// returns the customer as stored.
func (s *Service) TogglePaymentStatus(ctx context.Context, userID, customerID string) (models.Customer, error) {
	c, err := s.customer(ctx, userID, customerID)
	if err != nil {
		return models.Customer{}, err
	}
	return s.SetPaymentStatus(ctx, userID, customerID, c.Status().Toggle())
}

// SetPaymentStatus stores an explicit payment status.
func (s *Service) SetPaymentStatus(ctx context.Context, userID, customerID string, status models.PaymentStatus) (models.Customer, error) {
	if !status.Valid() {
		return models.Customer{}, fmt.Errorf("%w: unknown payment status %q", models.ErrInvalidInput, status)
	}
	if _, err := s.customer(ctx, userID, customerID); err != nil {
		return models.Customer{}, err
	}
	if err := s.repo.SetPaymentStatus(ctx, customerID, status); err != nil {
		return models.Customer{}, fmt.Errorf("set payment status: %w", err)
	}
	s.logger.Info("payment status updated", zap.String("customer_id", customerID), zap.String("status", string(status)))
	return s.repo.GetCustomer(ctx, customerID)
}

// Notifications derives the user's unpaid bill notifications from the
// current customers and entries. Nothing is cached.
func (s *Service) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	customers, entries, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return DeriveNotifications(customers, entries, models.WallClockIn(s.now(), s.loc)), nil
}

// ExportCSV writes the customer's entries as CSV and returns the suggested
// file name.
func (s *Service) ExportCSV(ctx context.Context, userID, customerID string, w io.Writer) (string, error) {
	c, err := s.customer(ctx, userID, customerID)
	if err != nil {
		return "", err
	}
	entries, err := s.repo.ListEntries(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("list entries of %s: %w", c.ID, err)
	}
	if err := WriteCSV(w, entries); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_milk_entries.csv", c.Name), nil
}

// WriteCSV serializes entries under CSVHeader.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Date.Format(models.DateLayout),
			e.QuantityKg.String(),
			e.PricePerKg.String(),
			e.TotalAmount().StringFixed(2),
			e.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) load(ctx context.Context, userID string) ([]models.Customer, map[string][]models.Entry, error) {
	customers, err := s.repo.ListCustomers(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list customers: %w", err)
	}
	entries := make(map[string][]models.Entry, len(customers))
	for _, c := range customers {
		list, err := s.repo.ListEntries(ctx, c.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list entries of %s: %w", c.ID, err)
		}
		entries[c.ID] = list
	}
	return customers, entries, nil
}
