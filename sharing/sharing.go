// Package sharing settles multi-party expenses: what an expense really cost
// the user, and how much is owed to or by each counterparty.
package sharing

import (
	"github.com/mfcoelho/bolso/model"
	"github.com/shopspring/decimal"
)

// EffectivePersonalCost is what ultimately left, or was owed by, the user's
// pocket: the amount minus every share assigned to someone else. The formula
// holds whether the user or a third party fronted the money.
func EffectivePersonalCost(txn model.Transaction) decimal.Decimal {
	cost := txn.Amount
	if txn.Split == nil {
		return cost
	}
	for _, share := range txn.Split.SharedWith {
		cost = cost.Sub(share.AssignedAmount)
	}
	return cost
}

// NetSettlement nets the open debts between the user and one counterparty:
// positive means the user must pay, negative means the user is owed, zero
// means no action. Settled and deleted rows are already resolved.
func NetSettlement(txns []model.Transaction, counterpartyID string) decimal.Decimal {
	net := decimal.Zero
	for _, txn := range txns {
		if txn.Deleted || txn.Settled || txn.Type != model.Expense || txn.Split == nil {
			continue
		}
		if txn.Split.PayerID == counterpartyID && counterpartyID != "" {
			// they paid, the user owes their own effective share
			net = net.Add(EffectivePersonalCost(txn))
			continue
		}
		if txn.Split.PayerID == "" {
			// the user paid, the counterparty owes their assigned share
			for _, share := range txn.Split.SharedWith {
				if share.MemberID == counterpartyID {
					net = net.Sub(share.AssignedAmount)
				}
			}
		}
	}
	return net
}
