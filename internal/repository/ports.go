package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// RecordRepository stores the per-user farm records.
type RecordRepository interface {
	CreateExpenses(ctx context.Context, expenses []models.Expense) error
	ListExpenses(ctx context.Context, userID string, from, to time.Time) ([]models.Expense, error)
	RecentExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error)
	GetExpense(ctx context.Context, id string) (models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	CreateProduction(ctx context.Context, p models.MilkProduction) error
	ListProductions(ctx context.Context, userID string, from, to time.Time) ([]models.MilkProduction, error)
	RecentProductions(ctx context.Context, userID string, limit int) ([]models.MilkProduction, error)
	GetProduction(ctx context.Context, id string) (models.MilkProduction, error)
	DeleteProduction(ctx context.Context, id string) error

	CreateSale(ctx context.Context, s models.MilkSale) error
	UpdateSale(ctx context.Context, s models.MilkSale) error
	ListSales(ctx context.Context, userID string, from, to time.Time) ([]models.MilkSale, error)
	RecentSales(ctx context.Context, userID string, limit int) ([]models.MilkSale, error)
	GetSale(ctx context.Context, id string) (models.MilkSale, error)
	DeleteSale(ctx context.Context, id string) error

	// TotalExpenses sums every expense of every user, like the dashboard card.
	TotalExpenses(ctx context.Context) (float64, error)
}

// LedgerRepository stores customers and their ledger entries.
type LedgerRepository interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	ListCustomers(ctx context.Context, userID string) ([]models.Customer, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	DeleteCustomer(ctx context.Context, id string) error

	// AddEntries appends entries in order; it assigns Seq.
	AddEntries(ctx context.Context, entries []models.Entry) ([]models.Entry, error)
	// ListEntries returns a customer's entries in insertion order.
	ListEntries(ctx context.Context, customerID string) ([]models.Entry, error)
	GetEntry(ctx context.Context, id string) (models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// DigestRepository archives scheduled digests.
type DigestRepository interface {
	SaveDigest(ctx context.Context, d models.Digest) error
}
