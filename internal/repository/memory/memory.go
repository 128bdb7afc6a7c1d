package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// Store keeps every record in process memory. It satisfies the record, ledger
// and digest repositories and is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	expenses    []models.Expense
	productions []models.MilkProduction
	sales       []models.MilkSale

	customers []models.Customer
	entries   []models.Entry
	seq       int64

	digests []models.Digest
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// CreateExpenses stores a batch of expenses.
func (s *Store) CreateExpenses(_ context.Context, expenses []models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, expenses...)
	return nil
}

// ListExpenses returns the user's expenses dated within [from, to], oldest first.
func (s *Store) ListExpenses(_ context.Context, userID string, from, to time.Time) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// RecentExpenses returns up to limit of the user's newest expenses.
func (s *Store) RecentExpenses(_ context.Context, userID string, limit int) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return truncate(out, limit), nil
}

// GetExpense looks up one expense.
func (s *Store) GetExpense(_ context.Context, id string) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Expense{}, models.ErrNotFound
}

// DeleteExpense removes one expense.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// TotalExpenses sums every stored expense.
func (s *Store) TotalExpenses(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, e := range s.expenses {
		total += e.Amount
	}
	return total, nil
}

// CreateProduction stores one production record.
func (s *Store) CreateProduction(_ context.Context, p models.MilkProduction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productions = append(s.productions, p)
	return nil
}

// ListProductions returns the user's productions within [from, to], oldest first.
func (s *Store) ListProductions(_ context.Context, userID string, from, to time.Time) ([]models.MilkProduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MilkProduction
	for _, p := range s.productions {
		if p.UserID == userID && inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// RecentProductions returns up to limit of the user's newest productions.
func (s *Store) RecentProductions(_ context.Context, userID string, limit int) ([]models.MilkProduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MilkProduction
	for _, p := range s.productions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return truncate(out, limit), nil
}

// GetProduction looks up one production record.
func (s *Store) GetProduction(_ context.Context, id string) (models.MilkProduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.productions {
		if p.ID == id {
			return p, nil
		}
	}
	return models.MilkProduction{}, models.ErrNotFound
}

// DeleteProduction removes one production record.
func (s *Store) DeleteProduction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.productions {
		if p.ID == id {
			s.productions = append(s.productions[:i], s.productions[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// CreateSale stores one sale.
func (s *Store) CreateSale(_ context.Context, sale models.MilkSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return nil
}

// UpdateSale replaces a stored sale.
func (s *Store) UpdateSale(_ context.Context, sale models.MilkSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == sale.ID {
			s.sales[i] = sale
			return nil
		}
	}
	return models.ErrNotFound
}

// ListSales returns the user's sales within [from, to], oldest first.
func (s *Store) ListSales(_ context.Context, userID string, from, to time.Time) ([]models.MilkSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MilkSale
	for _, sale := range s.sales {
		if sale.UserID == userID && inRange(sale.Date, from, to) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// RecentSales returns up to limit of the user's newest sales.
func (s *Store) RecentSales(_ context.Context, userID string, limit int) ([]models.MilkSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MilkSale
	for _, sale := range s.sales {
		if sale.UserID == userID {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return truncate(out, limit), nil
}

// GetSale looks up one sale.
func (s *Store) GetSale(_ context.Context, id string) (models.MilkSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return models.MilkSale{}, models.ErrNotFound
}

// DeleteSale removes one sale.
func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sale := range s.sales {
		if sale.ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// CreateCustomer stores a new customer.
func (s *Store) CreateCustomer(_ context.Context, c models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
	return nil
}

// GetCustomer looks up one customer.
func (s *Store) GetCustomer(_ context.Context, id string) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, models.ErrNotFound
}

// ListCustomers returns the user's customers in creation order.
func (s *Store) ListCustomers(_ context.Context, userID string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Customer
	for _, c := range s.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// SetPaymentStatus updates a customer's payment status.
func (s *Store) SetPaymentStatus(_ context.Context, id string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].PaymentStatus = status
			return nil
		}
	}
	return models.ErrNotFound
}

// DeleteCustomer removes a customer together with its entries.
func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.customers {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrNotFound
	}
	s.customers = append(s.customers[:idx], s.customers[idx+1:]...)

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.CustomerID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

// AddEntries appends entries and assigns their sequence numbers.
func (s *Store) AddEntries(_ context.Context, entries []models.Entry) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		s.seq++
		e.Seq = s.seq
		s.entries = append(s.entries, e)
		out = append(out, e)
	}
	return out, nil
}

// ListEntries returns a customer's entries in insertion order.
func (s *Store) ListEntries(_ context.Context, customerID string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for _, e := range s.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEntry looks up one entry.
func (s *Store) GetEntry(_ context.Context, id string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Entry{}, models.ErrNotFound
}

// DeleteEntry removes one entry.
func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// SaveDigest archives a digest.
func (s *Store) SaveDigest(_ context.Context, d models.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digests = append(s.digests, d)
	return nil
}

// Digests returns the archived digests.
func (s *Store) Digests() []models.Digest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Digest(nil), s.digests...)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
