package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in exports.
const DateLayout = "2006-01-02"

// Period selects a reporting window ending now.
type Period string

const (
	PeriodWeekly      Period = "weekly"
	PeriodMonthly     Period = "monthly"
	PeriodThreeMonth  Period = "3-month"
	PeriodSixMonth    Period = "6-month"
	PeriodTwelveMonth Period = "12-month"
)

// Known reports whether p is one of the supported tokens. Unknown tokens are
// still accepted everywhere and resolve like PeriodMonthly.
func (p Period) Known() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodThreeMonth, PeriodSixMonth, PeriodTwelveMonth:
		return true
	}
	return false
}

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the window, both bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow maps a period token to the window ending at now.
func ResolveWindow(p Period, now time.Time) Window {
	var start time.Time
	switch p {
	case PeriodWeekly:
		start = now.AddDate(0, 0, -7)
	case PeriodThreeMonth:
		start = SubtractMonths(now, 3)
	case PeriodSixMonth:
		start = SubtractMonths(now, 6)
	case PeriodTwelveMonth:
		start = SubtractMonths(now, 12)
	default:
		start = SubtractMonths(now, 1)
	}
	return Window{Start: start, End: now}
}

// SubtractMonths moves t back n calendar months keeping the time of day. When
// the day does not exist in the target month it is clamped to that month's
// last day (Mar 31 minus one month is Feb 28 or 29).
func SubtractMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysInMonth(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WallClock re-reads t's wall clock as UTC. Stored dates are calendar days at
// UTC midnight, so "now" in the farm's timezone is compared in this form.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// WallClockIn reads t in the farm's location and returns that wall clock as
// UTC. A nil loc keeps t's own zone.
func WallClockIn(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return WallClock(t)
}

// ParseDate parses a YYYY-MM-DD value (a longer timestamp is cut to its date).
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(value) > len(DateLayout) {
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, value)
	}
	return t, nil
}

// ReportKind names the record collection a report is built from.
type ReportKind string

const (
	ReportExpense    ReportKind = "expense"
	ReportProduction ReportKind = "production"
	ReportSale       ReportKind = "sale"
)

// ParseReportKind accepts both the short kind and its file slug.
func ParseReportKind(value string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "expense", "expenses":
		return ReportExpense, nil
	case "production", "milk-production", "milk-productions":
		return ReportProduction, nil
	case "sale", "sales", "milk-sale", "milk-sales":
		return ReportSale, nil
	}
	return "", fmt.Errorf("%w: unknown report kind %q", ErrInvalidInput, value)
}

// Slug is the prefix used in downloaded report file names.
func (k ReportKind) Slug() string {
	switch k {
	case ReportProduction:
		return "milk-production"
	case ReportSale:
		return "milk-sale"
	default:
		return "expenses"
	}
}

// Subject is the human name of the record collection.
func (k ReportKind) Subject() string {
	switch k {
	case ReportProduction:
		return "Milk Production"
	case ReportSale:
		return "Milk Sales"
	default:
		return "Expenses"
	}
}

var periodTitles = map[Period]string{
	PeriodWeekly:      "Weekly",
	PeriodMonthly:     "Monthly",
	PeriodThreeMonth:  "3-Month",
	PeriodSixMonth:    "6-Month",
	PeriodTwelveMonth: "12-Month",
}

// Label is the title-case name of the period; unknown tokens read as monthly.
func (p Period) Label() string {
	if label, ok := periodTitles[p]; ok {
		return label
	}
	return periodTitles[PeriodMonthly]
}

// ReportTitle returns the document title for a kind and period. Unknown
// periods get the monthly title, matching ResolveWindow.
func ReportTitle(k ReportKind, p Period) string {
	return fmt.Sprintf("%s %s Report", p.Label(), k.Subject())
}
