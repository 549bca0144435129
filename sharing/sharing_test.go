package sharing

import (
	"testing"
	"time"

	"github.com/mfcoelho/bolso/math"
	"github.com/mfcoelho/bolso/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var dec = decimal.NewFromFloat

func sharedExpense(amount float64, payerID string, shares ...model.Share) model.Transaction {
	return model.Transaction{
		ID:          "txn",
		Date:        math.Date(2021, time.May, 1),
		Description: "Dinner",
		Amount:      dec(amount),
		Type:        model.Expense,
		AccountID:   "checking",
		Split: &model.SplitDetails{
			PayerID:    payerID,
			SharedWith: shares,
		},
	}
}

func TestEffectivePersonalCost(t *testing.T) {
	t.Run("no split costs the full amount", func(t *testing.T) {
		txn := sharedExpense(100, "")
		txn.Split = nil
		assert.True(t, dec(100).Equal(EffectivePersonalCost(txn)))
	})

	t.Run("others' shares come off the top", func(t *testing.T) {
		txn := sharedExpense(100, "", model.Share{MemberID: "x", AssignedAmount: dec(40)})
		assert.True(t, dec(60).Equal(EffectivePersonalCost(txn)))
	})

	t.Run("payer does not change the formula", func(t *testing.T) {
		txn := sharedExpense(100, "x", model.Share{MemberID: "x", AssignedAmount: dec(40)})
		assert.True(t, dec(60).Equal(EffectivePersonalCost(txn)))
	})

	t.Run("fully assigned costs nothing", func(t *testing.T) {
		txn := sharedExpense(100, "",
			model.Share{MemberID: "x", AssignedAmount: dec(60)},
			model.Share{MemberID: "y", AssignedAmount: dec(40)},
		)
		assert.True(t, EffectivePersonalCost(txn).IsZero())
	})
}

func TestNetSettlement(t *testing.T) {
	txns := []model.Transaction{
		// the user paid, ana owes 40
		sharedExpense(100, "", model.Share{MemberID: "ana", AssignedAmount: dec(40)}),
		// ana paid 90, the user's effective share is 90 - 60 = 30
		sharedExpense(90, "ana", model.Share{MemberID: "ana", AssignedAmount: dec(60)}),
		// unrelated counterparty
		sharedExpense(50, "", model.Share{MemberID: "rui", AssignedAmount: dec(25)}),
	}

	t.Run("nets both directions", func(t *testing.T) {
		// user owes 30, ana owes 40: net -10, the user is owed
		assert.True(t, dec(-10).Equal(NetSettlement(txns, "ana")))
	})

	t.Run("other counterparty unaffected", func(t *testing.T) {
		assert.True(t, dec(-25).Equal(NetSettlement(txns, "rui")))
	})

	t.Run("settled rows are resolved", func(t *testing.T) {
		settled := make([]model.Transaction, len(txns))
		copy(settled, txns)
		settled[0].Settled = true
		assert.True(t, dec(30).Equal(NetSettlement(settled, "ana")))
	})

	t.Run("deleted rows are ignored", func(t *testing.T) {
		deleted := make([]model.Transaction, len(txns))
		copy(deleted, txns)
		deleted[1].Deleted = true
		assert.True(t, dec(-40).Equal(NetSettlement(deleted, "ana")))
	})

	t.Run("no history means nothing owed", func(t *testing.T) {
		assert.True(t, NetSettlement(nil, "ana").IsZero())
	})
}
