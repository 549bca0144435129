// Package ledger synthesizes a double-entry view from the single-entry
// transaction log. No ledger table is persisted, entries are derived on
// demand.
package ledger

import (
	"fmt"
	"time"

	"github.com/mfcoelho/bolso/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Entry is one synthesized double-entry record. Debit and Credit are labels:
// an account name or a category pseudo-account.
type Entry struct {
	TransactionID string
	Date          time.Time
	Description   string
	Debit         string
	Credit        string
	Amount        decimal.Decimal
}

// Generate transforms transactions into double-entry records:
//
//	EXPENSE   debit category, credit account (swapped for refunds)
//	INCOME    debit account, credit category (swapped for refunds)
//	TRANSFER  debit destination account, credit source account
//
// Deleted rows and rows referencing missing accounts produce no entry; the
// skips are logged and returned as warnings, never silently merged.
func Generate(txns []model.Transaction, accounts []model.Account, logger *zap.Logger) ([]Entry, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	known := model.NewAccountSet(accounts)

	var entries []Entry
	var warnings []string
	skip := func(txn model.Transaction, reason string) {
		warning := fmt.Sprintf("Skipped transaction %q (%s): %s", txn.Description, txn.ID, reason)
		logger.Warn("Excluding transaction from ledger",
			zap.String("transaction", txn.ID),
			zap.String("reason", reason),
		)
		warnings = append(warnings, warning)
	}

	for _, txn := range txns {
		if txn.Deleted {
			continue
		}
		account, ok := known[txn.AccountID]
		if !ok {
			skip(txn, fmt.Sprintf("unknown account %q", txn.AccountID))
			continue
		}

		entry := Entry{
			TransactionID: txn.ID,
			Date:          txn.Date,
			Description:   txn.Description,
			Amount:        txn.Amount,
		}
		category := txn.Category
		if category == "" {
			category = "Uncategorized"
		}
		switch txn.Type {
		case model.Expense:
			entry.Debit, entry.Credit = category, account.Name
			if txn.Refund {
				entry.Debit, entry.Credit = entry.Credit, entry.Debit
			}
		case model.Income:
			entry.Debit, entry.Credit = account.Name, category
			if txn.Refund {
				entry.Debit, entry.Credit = entry.Credit, entry.Debit
			}
		case model.Transfer:
			destination, ok := known[txn.DestinationAccountID]
			if !ok {
				skip(txn, fmt.Sprintf("unknown destination account %q", txn.DestinationAccountID))
				continue
			}
			entry.Debit, entry.Credit = destination.Name, account.Name
		default:
			skip(txn, fmt.Sprintf("unknown transaction type %q", txn.Type))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, warnings
}
