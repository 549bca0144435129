// Package balance derives account balances from the transaction log
package balance

import (
	"time"

	"github.com/mfcoelho/bolso/model"
	"github.com/shopspring/decimal"
)

// AtDate returns a copy of the accounts with Balance set to the account's
// initial balance plus every non-deleted transaction dated on or before the
// cutoff. Transfers subtract from the source and add to the destination.
func AtDate(accounts []model.Account, txns []model.Transaction, cutoff time.Time) []model.Account {
	deltas := make(map[string]decimal.Decimal, len(accounts))
	for _, txn := range txns {
		if txn.Deleted || txn.Date.After(cutoff) {
			continue
		}
		deltas[txn.AccountID] = deltas[txn.AccountID].Add(txn.SignedAmount())
		if txn.Type == model.Transfer {
			deltas[txn.DestinationAccountID] = deltas[txn.DestinationAccountID].Add(txn.Amount)
		}
	}

	result := make([]model.Account, len(accounts))
	for i, account := range accounts {
		account.Balance = account.InitialBalance.Add(deltas[account.ID])
		result[i] = account
	}
	return result
}

// LiquidFunds sums the balances of spendable accounts. Credit card balances
// are committed debt and never count, even when positive.
func LiquidFunds(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		if account.Deleted || !account.Liquid() {
			continue
		}
		total = total.Add(account.Balance)
	}
	return total
}
