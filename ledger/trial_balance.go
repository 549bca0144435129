package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TrialBalanceItem aggregates one ledger label's activity.
// Balance is always Debit minus Credit.
type TrialBalanceItem struct {
	Label   string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// TrialBalance accumulates total debits and credits for every distinct label
// in the ledger, sorted alphabetically by label. For any internally
// consistent ledger the balances sum to zero.
func TrialBalance(entries []Entry) []TrialBalanceItem {
	totals := make(map[string]*TrialBalanceItem)
	get := func(label string) *TrialBalanceItem {
		item, ok := totals[label]
		if !ok {
			item = &TrialBalanceItem{Label: label}
			totals[label] = item
		}
		return item
	}
	for _, entry := range entries {
		debited := get(entry.Debit)
		debited.Debit = debited.Debit.Add(entry.Amount)
		credited := get(entry.Credit)
		credited.Credit = credited.Credit.Add(entry.Amount)
	}

	items := make([]TrialBalanceItem, 0, len(totals))
	for _, item := range totals {
		item.Balance = item.Debit.Sub(item.Credit)
		items = append(items, *item)
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].Label < items[b].Label
	})
	return items
}
