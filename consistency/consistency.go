// Package consistency validates referential integrity of the raw account and
// transaction sets. Issues are advisory: they are reported to the user and
// never block other operations.
package consistency

import (
	"fmt"

	"github.com/mfcoelho/bolso/model"
)

// Check returns a human-readable description of every referential problem
// found. Deleted transactions are skipped, they are kept only for audit
// history.
func Check(accounts []model.Account, txns []model.Transaction) []string {
	known := model.NewAccountSet(accounts)
	var issues []string
	for _, txn := range txns {
		if txn.Deleted {
			continue
		}
		if txn.AccountID == "" {
			// tolerated while a shared expense awaits payer resolution
			if txn.Split == nil || txn.Split.PayerID == "" {
				issues = append(issues, fmt.Sprintf("Transaction %q (%s) has no account", txn.Description, txn.ID))
			}
		} else if _, ok := known[txn.AccountID]; !ok {
			issues = append(issues, fmt.Sprintf("Transaction %q (%s) references unknown account %q", txn.Description, txn.ID, txn.AccountID))
		}
		if txn.Type != model.Transfer {
			continue
		}
		switch {
		case txn.DestinationAccountID == "":
			issues = append(issues, fmt.Sprintf("Transfer %q (%s) has no destination account", txn.Description, txn.ID))
		case txn.DestinationAccountID == txn.AccountID:
			issues = append(issues, fmt.Sprintf("Transfer %q (%s) sends money to its own source account %q", txn.Description, txn.ID, txn.AccountID))
		default:
			if _, ok := known[txn.DestinationAccountID]; !ok {
				issues = append(issues, fmt.Sprintf("Transfer %q (%s) references unknown destination account %q", txn.Description, txn.ID, txn.DestinationAccountID))
			}
		}
	}
	return issues
}
