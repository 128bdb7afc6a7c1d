package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is prepended to amounts in ledger messages.
const CurrencyPrefix = "Rs."

// PaymentStatus tracks whether a customer has settled their bill.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentReceived
}

// Toggle flips pending and received. Anything else is treated as pending.
func (s PaymentStatus) Toggle() PaymentStatus {
	if s == PaymentPending || s == "" {
		return PaymentReceived
	}
	return PaymentPending
}

// Customer is a milk buyer with a running ledger.
type Customer struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Notes         string        `json:"notes,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Status returns the payment status, defaulting to pending when unset.
func (c Customer) Status() PaymentStatus {
	if c.PaymentStatus == "" {
		return PaymentPending
	}
	return c.PaymentStatus
}

// Validate checks the editable customer fields.
func (c Customer) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: customer name exceeds %d characters", ErrInvalidInput, MaxNameLength)
	}
	if len(c.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

// EntryInput is the raw form of a ledger line. Nil pointers mean the field
// was left blank.
type EntryInput struct {
	Date       string           `json:"entry_date"`
	QuantityKg *decimal.Decimal `json:"quantity_kg"`
	PricePerKg *decimal.Decimal `json:"price_per_kg"`
	Notes      string           `json:"notes"`
}

// Complete reports whether quantity and price were both supplied.
func (in EntryInput) Complete() bool {
	return in.QuantityKg != nil && in.PricePerKg != nil
}

// Entry is one dated milk delivery charged to a customer.
type Entry struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Date       time.Time       `json:"entry_date"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	Notes      string          `json:"notes,omitempty"`
	Seq        int64           `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEntry validates the input and builds an entry for the customer.
func NewEntry(customerID string, in EntryInput) (Entry, error) {
	if !in.Complete() {
		return Entry{}, fmt.Errorf("%w: quantity and price per kg are required", ErrInvalidInput)
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Entry{}, err
	}
	if in.QuantityKg.IsNegative() || in.PricePerKg.IsNegative() {
		return Entry{}, fmt.Errorf("%w: quantity and price must not be negative", ErrInvalidInput)
	}
	if len(in.Notes) > MaxNotesLength {
		return Entry{}, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return Entry{
		CustomerID: customerID,
		Date:       date,
		QuantityKg: *in.QuantityKg,
		PricePerKg: *in.PricePerKg,
		Notes:      in.Notes,
	}, nil
}

// TotalAmount is quantity times price rounded to two decimals. It is always
// derived, there is no way to store a different value.
func (e Entry) TotalAmount() decimal.Decimal {
	return e.QuantityKg.Mul(e.PricePerKg).Round(2)
}

// MarshalJSON adds the derived total_amount to the entry payload.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return json.Marshal(struct {
		plain
		TotalAmount string `json:"total_amount"`
	}{plain(e), e.TotalAmount().StringFixed(2)})
}

// SumEntries totals the amount of all entries.
func SumEntries(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.TotalAmount())
	}
	return total
}

// CustomerView is a customer with totals recomputed from its entries.
type CustomerView struct {
	Customer
	TotalEntries int             `json:"total_entries"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewCustomerView derives the totals for c from entries.
func NewCustomerView(c Customer, entries []Entry) CustomerView {
	c.PaymentStatus = c.Status()
	return CustomerView{
		Customer:     c,
		TotalEntries: len(entries),
		TotalAmount:  SumEntries(entries),
	}
}

// Notification flags a customer whose bill is still unpaid.
type Notification struct {
	CustomerID    string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	LastEntryDate time.Time       `json:"last_entry_date"`
	Message       string          `json:"message"`
}

// FormatAmount renders an amount with the currency prefix and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return CurrencyPrefix + " " + d.StringFixed(2)
}
