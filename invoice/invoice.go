// Package invoice computes credit card billing cycles: which transactions
// fall on the invoice for a reference month, the invoice total, and the cash
// due date of each purchase.
package invoice

import (
	"time"

	"github.com/mfcoelho/bolso/math"
	"github.com/mfcoelho/bolso/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Invoice is one billing cycle of a credit card account. The window is
// (Start, End]: purchases after the prior month's closing day through the
// reference month's closing day.
type Invoice struct {
	AccountID    string
	Start        time.Time
	End          time.Time
	DueDate      time.Time
	Total        decimal.Decimal
	Transactions []model.Transaction
}

// Compute assembles the invoice of a credit card account for the given
// reference month. Refund rows subtract from the total.
func Compute(account model.Account, txns []model.Transaction, year int, month time.Month) (Invoice, error) {
	if account.Type != model.CreditCard {
		return Invoice{}, errors.Errorf("Account %q is not a credit card", account.Name)
	}
	start := math.ClampedDate(year, month-1, account.ClosingDay)
	end := math.ClampedDate(year, month, account.ClosingDay)

	inv := Invoice{
		AccountID: account.ID,
		Start:     start,
		End:       end,
		DueDate:   math.ClampedDate(year, month, account.DueDay),
	}
	for _, txn := range txns {
		if txn.Deleted || txn.Type != model.Expense || txn.AccountID != account.ID {
			continue
		}
		if !txn.Date.After(start) || txn.Date.After(end) {
			continue
		}
		if txn.Refund {
			inv.Total = inv.Total.Sub(txn.Amount)
		} else {
			inv.Total = inv.Total.Add(txn.Amount)
		}
		inv.Transactions = append(inv.Transactions, txn)
	}
	return inv, nil
}

// CashDueDate converts a purchase's accrual date to the date the money
// actually leaves a liquid account: purchases after the closing day roll to
// the next month's due date. The December to January rollover is explicit so
// the year advances with the month.
func CashDueDate(account model.Account, purchaseDate time.Time) (time.Time, error) {
	if account.Type != model.CreditCard {
		return time.Time{}, errors.Errorf("Account %q is not a credit card", account.Name)
	}
	year, month := purchaseDate.Year(), purchaseDate.Month()
	if purchaseDate.Day() > account.ClosingDay {
		if month == time.December {
			month = time.January
			year++
		} else {
			month++
		}
	}
	return math.ClampedDate(year, month, account.DueDay), nil
}
