// Package recurrence expands recurring transaction templates into concrete
// dated occurrences, catching up every period missed since the template was
// last generated.
package recurrence

import (
	"time"

	"github.com/mfcoelho/bolso/math"
	"github.com/mfcoelho/bolso/model"
)

// Policy bounds a single catch-up run. A stale template could otherwise
// materialize years of occurrences in one pass.
type Policy struct {
	MaxOccurrences int
}

// DefaultPolicy caps a run at one year of monthly occurrences
var DefaultPolicy = Policy{MaxOccurrences: 12}

// Result holds the rows the caller must persist: brand new occurrences and
// the templates whose LastGenerated advanced
type Result struct {
	NewTransactions []model.Transaction
	TemplateUpdates []model.Transaction
}

// Catchup materializes every occurrence due between each template's last
// generation and now. Occurrences are plain transactions, not templates, and
// carry a "(Recorrente)" description marker. Running twice for the same
// period adds nothing: an occurrence matching an existing non-deleted row on
// date, account, amount, type and description is skipped.
func Catchup(txns []model.Transaction, now time.Time, policy Policy, newID func() string) Result {
	if policy.MaxOccurrences <= 0 {
		policy = DefaultPolicy
	}

	var result Result
	for _, template := range txns {
		if template.Deleted || template.Recurrence == nil {
			continue
		}
		last := template.Recurrence.LastGenerated
		if last.IsZero() {
			last = template.Date
		}

		var generated []model.Transaction
		next := advance(last, *template.Recurrence)
		for i := 0; i < policy.MaxOccurrences && !next.After(now); i++ {
			occurrence := materialize(template, next, newID)
			if !exists(txns, occurrence) && !exists(result.NewTransactions, occurrence) {
				result.NewTransactions = append(result.NewTransactions, occurrence)
			}
			generated = append(generated, occurrence)
			next = advance(next, *template.Recurrence)
		}
		if len(generated) > 0 {
			update := template
			details := *template.Recurrence
			details.LastGenerated = generated[len(generated)-1].Date
			update.Recurrence = &details
			result.TemplateUpdates = append(result.TemplateUpdates, update)
		}
	}
	return result
}

// advance computes the next occurrence date. Monthly moves through day 1 of
// the next month before re-anchoring, so a day-31 anchor never skips a short
// month.
func advance(date time.Time, details model.RecurrenceDetails) time.Time {
	switch details.Frequency {
	case model.Daily:
		return date.AddDate(0, 0, 1)
	case model.Weekly:
		return date.AddDate(0, 0, 7)
	case model.Yearly:
		return date.AddDate(1, 0, 0)
	case model.Monthly:
		anchor := details.RecurrenceDay
		if anchor == 0 {
			anchor = date.Day()
		}
		firstOfNext := math.Date(date.Year(), date.Month()+1, 1)
		return math.ClampedDate(firstOfNext.Year(), firstOfNext.Month(), anchor)
	}
	return date
}

func materialize(template model.Transaction, date time.Time, newID func() string) model.Transaction {
	occurrence := template
	occurrence.ID = newID()
	occurrence.Date = date
	occurrence.Description = template.Description + " (Recorrente)"
	occurrence.Recurrence = nil
	return occurrence
}

func exists(txns []model.Transaction, occurrence model.Transaction) bool {
	for _, txn := range txns {
		if txn.Deleted || txn.Recurrence != nil {
			continue
		}
		if math.SameDay(txn.Date, occurrence.Date) &&
			txn.AccountID == occurrence.AccountID &&
			txn.Amount.Equal(occurrence.Amount) &&
			txn.Type == occurrence.Type &&
			txn.Description == occurrence.Description {
			return true
		}
	}
	return false
}
