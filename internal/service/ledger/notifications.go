package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// GraceDays is how many days into a month bills are left alone before an
// unpaid balance is flagged.
const GraceDays = 7

// DeriveNotifications flags every pending customer whose latest entry falls in
// the current month or an earlier month, once the grace period has passed.
//
// The month test compares month numbers only: an entry from a later month of
// a previous year (December when today is January) is not flagged. That is
// the rule as the farm uses it today and is kept until the owners decide.
func DeriveNotifications(customers []models.Customer, entries map[string][]models.Entry, today time.Time) []models.Notification {
	out := []models.Notification{}
	if today.Day() <= GraceDays {
		return out
	}

	for _, c := range customers {
		list := entries[c.ID]
		if len(list) == 0 || c.Status() != models.PaymentPending {
			continue
		}

		latest, _ := LatestEntry(list)
		entryMonth, entryYear := latest.Date.Month(), latest.Date.Year()
		billed := entryMonth < today.Month() || (entryMonth == today.Month() && entryYear == today.Year())
		if !billed {
			continue
		}

		total := models.SumEntries(list)
		out = append(out, models.Notification{
			CustomerID:    c.ID,
			CustomerName:  c.Name,
			TotalAmount:   total,
			LastEntryDate: latest.Date,
			Message:       fmt.Sprintf("%s has not yet paid the bill of %s", c.Name, models.FormatAmount(total)),
		})
	}
	return out
}

// LatestEntry returns the entry with the greatest date. On equal dates the
// one inserted last wins.
func LatestEntry(entries []models.Entry) (models.Entry, bool) {
	if len(entries) == 0 {
		return models.Entry{}, false
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if !e.Date.Before(latest.Date) {
			latest = e
		}
	}
	return latest, true
}

// DismissNotification drops the customer's notification from a list the
// caller holds. Nothing is stored, so the next derivation brings it back.
func DismissNotification(list []models.Notification, customerID string) []models.Notification {
	out := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if n.CustomerID != customerID {
			out = append(out, n)
		}
	}
	return out
}

// SortForDisplay returns a copy of entries ordered newest first.
func SortForDisplay(entries []models.Entry) []models.Entry {
	out := append([]models.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Seq > out[j].Seq
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}
