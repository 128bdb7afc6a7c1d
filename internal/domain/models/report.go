package models

import "time"

// TypeTotal is the sum and count of expenses of one category.
type TypeTotal struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// ExpenseSummary aggregates the expenses of a window.
type ExpenseSummary struct {
	Records       []Expense                 `json:"records"`
	Total         float64                   `json:"total_amount"`
	Count         int                       `json:"count"`
	Average       float64                   `json:"average"`
	GroupedByType map[ExpenseType]TypeTotal `json:"grouped_by_type"`
}

// Empty reports whether no expense fell in the window.
func (s ExpenseSummary) Empty() bool { return s.Count == 0 }

// ProductionSummary aggregates the milk production of a window.
type ProductionSummary struct {
	Records   []MilkProduction `json:"records"`
	TotalMilk float64          `json:"total_milk"`
	Average   float64          `json:"average_milk"`
	Count     int              `json:"total_days"`
}

// Empty reports whether no production fell in the window.
func (s ProductionSummary) Empty() bool { return s.Count == 0 }

// SaleSummary aggregates the milk sales of a window.
type SaleSummary struct {
	Records      []MilkSale `json:"records"`
	TotalMilk    float64    `json:"total_milk"`
	TotalAmount  float64    `json:"total_amount"`
	AveragePrice float64    `json:"average_price"`
	Count        int        `json:"total_sales"`
}

// Empty reports whether no sale fell in the window.
func (s SaleSummary) Empty() bool { return s.Count == 0 }

// ReportData is the flat bag handed to the document renderer.
type ReportData struct {
	Kind        ReportKind
	Period      Period
	Title       string
	Window      Window
	UserID      string
	GeneratedAt time.Time
	Filename    string

	Expenses   *ExpenseSummary
	Production *ProductionSummary
	Sales      *SaleSummary
}

// Count returns the number of records in whichever summary is set.
func (d ReportData) Count() int {
	switch {
	case d.Expenses != nil:
		return d.Expenses.Count
	case d.Production != nil:
		return d.Production.Count
	case d.Sales != nil:
		return d.Sales.Count
	}
	return 0
}

// Digest is the periodic farm summary pushed by the scheduler and archived.
type Digest struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Period      Period    `bson:"period" json:"period"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	MilkKg      float64   `bson:"milk_kg" json:"milk_kg"`
	SalesKg     float64   `bson:"sales_kg" json:"sales_kg"`
	SalesAmount float64   `bson:"sales_amount" json:"sales_amount"`
	Expenses    float64   `bson:"expenses" json:"expenses"`
	Profit      float64   `bson:"profit" json:"profit"`
	UnpaidBills int       `bson:"unpaid_bills" json:"unpaid_bills"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// DashboardSummary backs the landing page.
type DashboardSummary struct {
	TodayProduction   *MilkProduction  `json:"today_production"`
	TodaySale         *MilkSale        `json:"today_sale"`
	RecentProductions []MilkProduction `json:"recent_productions"`
	TotalExpenses     float64          `json:"total_expenses"`
	TodayNetProfit    float64          `json:"today_net_profit"`
	PendingBills      int              `json:"pending_bills"`
}

// MonthlySaleTotals sums the sales of the current calendar month.
type MonthlySaleTotals struct {
	TotalMilk   float64 `json:"total_milk"`
	TotalAmount float64 `json:"total_amount"`
}
