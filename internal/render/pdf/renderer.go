// Package pdf renders period reports as A4 PDF documents.
package pdf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	displayDate = "Jan 02, 2006"
	stampLayout = "Jan 02, 2006 15:04"
	lineHeight  = 7.0
	pageWidth   = 190.0
	maxCellText = 48
)

// column describes one table column of a records table.
type column struct {
	header string
	width  float64
	align  string
}

// Renderer draws report data with fpdf.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer builds a PDF renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger.Named("render.pdf")}
}

// Render writes the report as a PDF document to w.
func (r *Renderer) Render(w io.Writer, data models.ReportData) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(data.Title, true)
	doc.SetCreator("dairy", false)
	if !data.GeneratedAt.IsZero() {
		doc.SetCreationDate(data.GeneratedAt)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(102, 102, 102)
		doc.CellFormat(0, 10, fmt.Sprintf("Generated by Dairy Farm Management System - page %d", doc.PageNo()), "T", 0, "C", false, 0, "")
	})
	doc.AddPage()

	writeHeader(doc, tr, data)

	switch {
	case data.Expenses != nil:
		writeExpenses(doc, tr, *data.Expenses)
	case data.Production != nil:
		writeProduction(doc, tr, *data.Production)
	case data.Sales != nil:
		writeSales(doc, tr, *data.Sales)
	default:
		return fmt.Errorf("report %q carries no summary", data.Title)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	r.logger.Debug("report rendered",
		zap.String("kind", string(data.Kind)),
		zap.String("period", string(data.Period)),
		zap.Int("records", data.Count()))
	return nil
}

func writeHeader(doc *fpdf.Fpdf, tr func(string) string, data models.ReportData) {
	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(51, 51, 51)
	doc.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(0, 6, fmt.Sprintf("%s - %s", data.Window.Start.Format(displayDate), data.Window.End.Format(displayDate)), "", 1, "C", false, 0, "")
	if data.UserID != "" {
		doc.CellFormat(0, 6, tr("Generated for: "+data.UserID), "", 1, "C", false, 0, "")
	}
	doc.CellFormat(0, 6, "Generated on: "+data.GeneratedAt.Format(stampLayout), "", 1, "C", false, 0, "")
	doc.Ln(4)
}

// writeSummary draws a strip of value/label boxes.
func writeSummary(doc *fpdf.Fpdf, items [][2]string) {
	width := pageWidth / float64(len(items))
	doc.SetFillColor(248, 249, 250)
	doc.SetTextColor(51, 51, 51)

	doc.SetFont("Helvetica", "B", 13)
	for _, item := range items {
		doc.CellFormat(width, 9, item[0], "LTR", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 9)
	for _, item := range items {
		doc.CellFormat(width, 6, item[1], "LBR", 0, "C", true, 0, "")
	}
	doc.Ln(10)
}

func writeTable(doc *fpdf.Fpdf, tr func(string) string, cols []column, rows [][]string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(233, 236, 239)
	doc.SetTextColor(51, 51, 51)
	for _, c := range cols {
		doc.CellFormat(c.width, lineHeight, c.header, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		fill := i%2 == 1
		doc.SetFillColor(248, 249, 250)
		for j, c := range cols {
			doc.CellFormat(c.width, lineHeight, tr(clip(row[j])), "1", 0, c.align, fill, 0, "")
		}
		doc.Ln(-1)
	}
}

func writeExpenses(doc *fpdf.Fpdf, tr func(string) string, s models.ExpenseSummary) {
	writeSummary(doc, [][2]string{
		{money(s.Total), "Total Expenses"},
		{fmt.Sprintf("%d", s.Count), "Total Expense Entries"},
		{money(s.Average), "Average Expense"},
	})

	if len(s.GroupedByType) > 0 {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, "Expenses by Type", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, t := range sortedTypes(s.GroupedByType) {
			total := s.GroupedByType[t]
			doc.CellFormat(pageWidth/2, 6, t.Label(), "B", 0, "L", false, 0, "")
			doc.CellFormat(pageWidth/2, 6, fmt.Sprintf("%s (%d entries)", money(total.Sum), total.Count), "B", 1, "R", false, 0, "")
		}
		doc.Ln(6)
	}

	rows := make([][]string, 0, len(s.Records))
	for _, e := range s.Records {
		rows = append(rows, []string{
			e.Date.Format(displayDate),
			e.Type.Label(),
			orDash(e.Name),
			money(e.Amount),
			orDash(e.Description),
		})
	}
	writeTable(doc, tr, []column{
		{"Date", 30, "L"},
		{"Type", 30, "L"},
		{"Expense Name", 45, "L"},
		{"Amount (Rs.)", 30, "R"},
		{"Description", 55, "L"},
	}, rows)
}

func writeProduction(doc *fpdf.Fpdf, tr func(string) string, s models.ProductionSummary) {
	writeSummary(doc, [][2]string{
		{number(s.TotalMilk) + " KG", "Total Milk Production"},
		{number(s.Average) + " KG", "Average Daily Production"},
		{fmt.Sprintf("%d", s.Count), "Total Production Days"},
	})

	rows := make([][]string, 0, len(s.Records))
	for _, p := range s.Records {
		rows = append(rows, []string{p.Date.Format(displayDate), number(p.MilkKg), orDash(p.Notes)})
	}
	writeTable(doc, tr, []column{
		{"Date", 40, "L"},
		{"Milk Production (KG)", 50, "R"},
		{"Notes", 100, "L"},
	}, rows)
}

func writeSales(doc *fpdf.Fpdf, tr func(string) string, s models.SaleSummary) {
	writeSummary(doc, [][2]string{
		{number(s.TotalMilk) + " KG", "Total Milk Sold"},
		{money(s.TotalAmount), "Total Sales Amount"},
		{money(s.AveragePrice), "Average Price per KG"},
		{fmt.Sprintf("%d", s.Count), "Total Sales"},
	})

	rows := make([][]string, 0, len(s.Records))
	for _, sale := range s.Records {
		rows = append(rows, []string{
			sale.Date.Format(displayDate),
			number(sale.MilkKg),
			money(sale.SaleAmount),
			money(sale.PricePerKg()),
			orDash(sale.Notes),
		})
	}
	writeTable(doc, tr, []column{
		{"Date", 30, "L"},
		{"Milk (KG)", 30, "R"},
		{"Sale Amount (Rs.)", 38, "R"},
		{"Price per KG (Rs.)", 38, "R"},
		{"Notes", 54, "L"},
	}, rows)
}

func sortedTypes(m map[models.ExpenseType]models.TypeTotal) []models.ExpenseType {
	out := make([]models.ExpenseType, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func money(v float64) string {
	return models.CurrencyPrefix + number(v)
}

// number formats v with two decimals and thousands separators.
func number(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func clip(s string) string {
	if len([]rune(s)) <= maxCellText {
		return s
	}
	return string([]rune(s)[:maxCellText-3]) + "..."
}
