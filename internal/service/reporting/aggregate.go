package reporting

import (
	"math"
	"sort"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// AggregateExpenses keeps the expenses dated inside w (bounds included),
// sorted oldest first, and totals them per category.
func AggregateExpenses(records []models.Expense, w models.Window) models.ExpenseSummary {
	summary := models.ExpenseSummary{
		Records:       []models.Expense{},
		GroupedByType: map[models.ExpenseType]models.TypeTotal{},
	}
	for _, e := range records {
		if !w.Contains(e.Date) {
			continue
		}
		summary.Records = append(summary.Records, e)
		summary.Total += e.Amount

		group := summary.GroupedByType[e.Type]
		group.Sum += e.Amount
		group.Count++
		summary.GroupedByType[e.Type] = group
	}
	sort.SliceStable(summary.Records, func(i, j int) bool {
		return summary.Records[i].Date.Before(summary.Records[j].Date)
	})

	summary.Count = len(summary.Records)
	summary.Average = summary.Total / math.Max(float64(summary.Count), 1)
	return summary
}

// AggregateProduction keeps the productions dated inside w and averages the
// daily yield over the days that have a record.
func AggregateProduction(records []models.MilkProduction, w models.Window) models.ProductionSummary {
	summary := models.ProductionSummary{Records: []models.MilkProduction{}}
	for _, p := range records {
		if !w.Contains(p.Date) {
			continue
		}
		summary.Records = append(summary.Records, p)
		summary.TotalMilk += p.MilkKg
	}
	sort.SliceStable(summary.Records, func(i, j int) bool {
		return summary.Records[i].Date.Before(summary.Records[j].Date)
	})

	summary.Count = len(summary.Records)
	if summary.Count > 0 {
		summary.Average = summary.TotalMilk / float64(summary.Count)
	}
	return summary
}

// AggregateSales keeps the sales dated inside w. The average price divides
// by at least one kilogram so a window with no milk sold stays finite.
func AggregateSales(records []models.MilkSale, w models.Window) models.SaleSummary {
	summary := models.SaleSummary{Records: []models.MilkSale{}}
	for _, s := range records {
		if !w.Contains(s.Date) {
			continue
		}
		summary.Records = append(summary.Records, s)
		summary.TotalMilk += s.MilkKg
		summary.TotalAmount += s.SaleAmount
	}
	sort.SliceStable(summary.Records, func(i, j int) bool {
		return summary.Records[i].Date.Before(summary.Records[j].Date)
	})

	summary.Count = len(summary.Records)
	summary.AveragePrice = summary.TotalAmount / math.Max(summary.TotalMilk, 1)
	return summary
}
