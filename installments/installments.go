// Package installments splits a purchase into a dated series of charges.
// Splitting must never lose a cent: the first N-1 installments get the
// truncated share and the last one absorbs the remainder, so the series sums
// to exactly the original amount. The same rule is applied independently to
// each shared member's portion.
package installments

import (
	"fmt"
	"strings"
	"time"

	sErrors "github.com/mfcoelho/bolso/errors"
	"github.com/mfcoelho/bolso/math"
	"github.com/mfcoelho/bolso/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// anticipatedMarker is appended once to anticipated installments, repeated
// anticipation must not stack markers
const anticipatedMarker = " (Antecipado)"

// Request describes the purchase to split
type Request struct {
	Description string
	Amount      decimal.Decimal
	Count       int
	Anchor      time.Time
	AccountID   string
	Category    string
	Shares      []model.Share
	PayerID     string
}

// Generate splits the purchase into Count transactions, one month apart
// starting at the anchor date, with the anchor's day-of-month clamped for
// shorter months. newID supplies the series ID and each row's ID.
func Generate(req Request, newID func() string) ([]model.Transaction, error) {
	var errs sErrors.Errors
	errs.ErrIf(!req.Amount.IsPositive(), "Installment amount must be positive: %s", req.Amount)
	errs.ErrIf(req.Count < 2, "Installment count must be at least 2: %d", req.Count)
	errs.ErrIf(req.Description == "", "Installment description must not be empty")
	errs.ErrIf(req.Anchor.IsZero(), "Installment anchor date must be set")
	errs.ErrIf(req.AccountID == "", "Installment account must be set")
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	amounts := splitExact(req.Amount, req.Count)
	memberAmounts := make([][]decimal.Decimal, len(req.Shares))
	for m, share := range req.Shares {
		memberAmounts[m] = splitProportional(share.AssignedAmount, amounts, req.Amount)
	}

	seriesID := newID()
	txns := make([]model.Transaction, req.Count)
	for i := 0; i < req.Count; i++ {
		txn := model.Transaction{
			ID:          newID(),
			Date:        math.AddMonths(req.Anchor, i),
			Description: fmt.Sprintf("%s (%d/%d)", req.Description, i+1, req.Count),
			Amount:      amounts[i],
			Type:        model.Expense,
			Category:    req.Category,
			AccountID:   req.AccountID,
			Installment: &model.InstallmentDetails{
				SeriesID:       seriesID,
				Current:        i + 1,
				Total:          req.Count,
				OriginalAmount: req.Amount,
				Anchor:         req.Anchor,
			},
		}
		if len(req.Shares) > 0 {
			split := &model.SplitDetails{PayerID: req.PayerID}
			for m, share := range req.Shares {
				split.SharedWith = append(split.SharedWith, model.Share{
					MemberID:       share.MemberID,
					Percentage:     share.Percentage,
					AssignedAmount: memberAmounts[m][i],
				})
			}
			txn.Split = split
		}
		var err error
		txns[i], err = model.NewTransaction(txn)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid installment %d/%d", i+1, req.Count)
		}
	}
	return txns, nil
}

// splitExact divides total into count parts: truncated share for all but the
// last part, which absorbs the rounding remainder
func splitExact(total decimal.Decimal, count int) []decimal.Decimal {
	base := total.Div(decimal.NewFromInt(int64(count))).Truncate(2)
	parts := make([]decimal.Decimal, count)
	sum := decimal.Zero
	for i := 0; i < count-1; i++ {
		parts[i] = base
		sum = sum.Add(base)
	}
	parts[count-1] = total.Sub(sum)
	return parts
}

// splitProportional distributes a member's assigned total across the
// installment amounts in proportion to each installment's share of the
// purchase, with the last installment absorbing the remainder so the member's
// portions sum exactly to their assigned total
func splitProportional(memberTotal decimal.Decimal, amounts []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	parts := make([]decimal.Decimal, len(amounts))
	sum := decimal.Zero
	for i := 0; i < len(amounts)-1; i++ {
		parts[i] = memberTotal.Mul(amounts[i]).Div(total).Truncate(2)
		sum = sum.Add(parts[i])
	}
	parts[len(amounts)-1] = memberTotal.Sub(sum)
	return parts
}

// Anticipate moves the selected future, unsettled installments to the payment
// date, optionally onto a different account, and marks their descriptions.
// Returns only the updated rows for the caller to persist.
func Anticipate(txns []model.Transaction, ids []string, paymentDate time.Time, targetAccountID string, now time.Time) ([]model.Transaction, error) {
	byID := make(map[string]model.Transaction, len(txns))
	for _, txn := range txns {
		if !txn.Deleted {
			byID[txn.ID] = txn
		}
	}

	updated := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		txn, ok := byID[id]
		if !ok {
			return nil, errors.Errorf("Installment not found: %q", id)
		}
		if txn.Installment == nil {
			return nil, errors.Errorf("Transaction %q is not an installment", id)
		}
		if txn.Settled {
			return nil, errors.Errorf("Installment %q is already settled and cannot be anticipated", txn.Description)
		}
		if !txn.Date.After(now) {
			return nil, errors.Errorf("Installment %q is not in the future and cannot be anticipated", txn.Description)
		}

		txn.Date = paymentDate
		if targetAccountID != "" {
			txn.AccountID = targetAccountID
		}
		if !strings.HasSuffix(txn.Description, anticipatedMarker) {
			txn.Description += anticipatedMarker
		}
		updated = append(updated, txn)
	}
	return updated, nil
}

// Resize regenerates a whole series with a new installment count. It refuses
// to touch a series with settled rows or shared splits: remapping another
// party's debt onto a different row count has no unambiguous answer. The
// returned replacement must be applied atomically.
func Resize(series []model.Transaction, newCount int, newID func() string) (Replacement, error) {
	if len(series) == 0 {
		return Replacement{}, errors.New("Cannot resize an empty series")
	}
	var first model.Transaction
	seriesID := ""
	for _, txn := range series {
		if txn.Installment == nil || (seriesID != "" && txn.Installment.SeriesID != seriesID) {
			return Replacement{}, errors.New("Resize requires rows of a single installment series")
		}
		seriesID = txn.Installment.SeriesID
		if txn.Settled {
			return Replacement{}, errors.Errorf("Series has a settled installment %q and cannot be resized", txn.Description)
		}
		if txn.Split != nil && len(txn.Split.SharedWith) > 0 {
			return Replacement{}, errors.Errorf("Series has a shared installment %q and cannot be resized", txn.Description)
		}
		if txn.Installment.Current == 1 {
			first = txn
		}
	}
	if first.ID == "" {
		return Replacement{}, errors.New("Series is missing its first installment")
	}

	anchor := first.Installment.Anchor
	if anchor.IsZero() {
		// rows persisted before the anchor was recorded: reconstruct it
		// from the first installment's date
		anchor = first.Date
	}
	added, err := Generate(Request{
		Description: baseDescription(first),
		Amount:      first.Installment.OriginalAmount,
		Count:       newCount,
		Anchor:      anchor,
		AccountID:   first.AccountID,
		Category:    first.Category,
	}, newID)
	if err != nil {
		return Replacement{}, err
	}
	return Replacement{Removed: series, Added: added}, nil
}

// Replacement is an atomic series swap: either every removed row is replaced
// by the added set, or nothing changes
type Replacement struct {
	Removed []model.Transaction
	Added   []model.Transaction
}

// baseDescription strips the suffixes added by Generate and Anticipate.
// The anticipation marker sits after the "(i/N)" counter, so it comes off
// first.
func baseDescription(txn model.Transaction) string {
	description := strings.TrimSuffix(txn.Description, anticipatedMarker)
	counter := fmt.Sprintf(" (%d/%d)", txn.Installment.Current, txn.Installment.Total)
	return strings.TrimSuffix(description, counter)
}
