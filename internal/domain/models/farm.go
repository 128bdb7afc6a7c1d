package models

import (
	"fmt"
	"strings"
	"time"
)

// Upper bounds accepted for a single farm record.
const (
	MaxExpenseAmount = 100000
	MaxMilkKg        = 10000
	MaxSaleAmount    = 100000
	MaxNameLength    = 255
	MaxNotesLength   = 1000
)

// ExpenseType categorizes operating expenses.
type ExpenseType string

const (
	ExpensePetrol      ExpenseType = "petrol"
	ExpenseElectricity ExpenseType = "electricity"
	ExpenseEmployeePay ExpenseType = "employee_pay"
	ExpenseFarm        ExpenseType = "farm"
)

// Valid reports whether t is one of the known expense categories.
func (t ExpenseType) Valid() bool {
	switch t {
	case ExpensePetrol, ExpenseElectricity, ExpenseEmployeePay, ExpenseFarm:
		return true
	}
	return false
}

// Label is the human-friendly category name used in reports.
func (t ExpenseType) Label() string {
	if t == ExpenseEmployeePay {
		return "Employee Pay"
	}
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Expense captures one operating expense.
type Expense struct {
	ID          string      `bson:"_id" json:"id"`
	UserID      string      `bson:"user_id" json:"user_id"`
	Date        time.Time   `bson:"expense_date" json:"expense_date"`
	Type        ExpenseType `bson:"expense_type" json:"expense_type"`
	Name        string      `bson:"expense_name,omitempty" json:"expense_name,omitempty"`
	Amount      float64     `bson:"amount" json:"amount"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
}

// MilkProduction captures the milk collected on one day.
type MilkProduction struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Date      time.Time `bson:"production_date" json:"production_date"`
	MilkKg    float64   `bson:"milk_kg" json:"milk_kg"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MilkSale captures the milk sold on one day and what it brought in.
type MilkSale struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	Date       time.Time `bson:"sale_date" json:"sale_date"`
	MilkKg     float64   `bson:"milk_kg" json:"milk_kg"`
	SaleAmount float64   `bson:"sale_amount" json:"sale_amount"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// PricePerKg is the realised price of a single sale, zero when no milk was sold.
func (s MilkSale) PricePerKg() float64 {
	if s.MilkKg <= 0 {
		return 0
	}
	return s.SaleAmount / s.MilkKg
}

// Validate checks an expense against the entry rules at the given instant.
func (e Expense) Validate(now time.Time) error {
	if err := validateDate(e.Date, now); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown expense type %q", ErrInvalidInput, e.Type)
	}
	if err := validateMeasure("amount", e.Amount, MaxExpenseAmount); err != nil {
		return err
	}
	if len(e.Name) > MaxNameLength {
		return fmt.Errorf("%w: expense name exceeds %d characters", ErrInvalidInput, MaxNameLength)
	}
	if len(e.Description) > MaxNotesLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

// Validate checks a production record against the entry rules.
func (p MilkProduction) Validate(now time.Time) error {
	if err := validateDate(p.Date, now); err != nil {
		return err
	}
	if err := validateMeasure("milk_kg", p.MilkKg, MaxMilkKg); err != nil {
		return err
	}
	if len(p.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

// Validate checks a sale record against the entry rules.
func (s MilkSale) Validate(now time.Time) error {
	if err := validateDate(s.Date, now); err != nil {
		return err
	}
	if err := validateMeasure("milk_kg", s.MilkKg, MaxMilkKg); err != nil {
		return err
	}
	if err := validateMeasure("sale_amount", s.SaleAmount, MaxSaleAmount); err != nil {
		return err
	}
	if len(s.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

func validateDate(date, now time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if DayStart(date).After(DayStart(now)) {
		return fmt.Errorf("%w: date %s is in the future", ErrInvalidInput, date.Format(DateLayout))
	}
	return nil
}

func validateMeasure(field string, value, max float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	}
	if value > max {
		return fmt.Errorf("%w: %s must not exceed %.0f", ErrInvalidInput, field, max)
	}
	return nil
}
