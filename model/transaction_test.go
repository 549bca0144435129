package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dec = decimal.NewFromFloat

func someDate() time.Time {
	return time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func validExpense() Transaction {
	return Transaction{
		ID:          "txn-1",
		Date:        someDate(),
		Description: "Groceries",
		Amount:      dec(150),
		Type:        Expense,
		Category:    "Food",
		AccountID:   "acct-1",
	}
}

func TestValidateTransaction(t *testing.T) {
	for _, tc := range []struct {
		description string
		mutate      func(*Transaction)
		err         string
	}{
		{
			description: "happy path",
			mutate:      func(*Transaction) {},
		},
		{
			description: "zero amount",
			mutate:      func(txn *Transaction) { txn.Amount = decimal.Zero },
			err:         "amount must be positive",
		},
		{
			description: "negative amount",
			mutate:      func(txn *Transaction) { txn.Amount = dec(-5) },
			err:         "amount must be positive",
		},
		{
			description: "empty description",
			mutate:      func(txn *Transaction) { txn.Description = "" },
			err:         "description must not be empty",
		},
		{
			description: "missing date",
			mutate:      func(txn *Transaction) { txn.Date = time.Time{} },
			err:         "date must be set",
		},
		{
			description: "missing account",
			mutate:      func(txn *Transaction) { txn.AccountID = "" },
			err:         "account must be set",
		},
		{
			description: "pending payer resolution may lack an account",
			mutate: func(txn *Transaction) {
				txn.AccountID = ""
				txn.Split = &SplitDetails{PayerID: "member-1"}
			},
		},
		{
			description: "transfer without destination",
			mutate: func(txn *Transaction) {
				txn.Type = Transfer
				txn.Category = ""
			},
			err: "destination account must be set",
		},
		{
			description: "self transfer",
			mutate: func(txn *Transaction) {
				txn.Type = Transfer
				txn.DestinationAccountID = txn.AccountID
			},
			err: "must differ from the source account",
		},
		{
			description: "transfer with installments",
			mutate: func(txn *Transaction) {
				txn.Type = Transfer
				txn.DestinationAccountID = "acct-2"
				txn.Installment = &InstallmentDetails{SeriesID: "s", Current: 1, Total: 2, OriginalAmount: dec(150)}
			},
			err: "cannot be split into installments",
		},
		{
			description: "transfer with split",
			mutate: func(txn *Transaction) {
				txn.Type = Transfer
				txn.DestinationAccountID = "acct-2"
				txn.Split = &SplitDetails{SharedWith: []Share{{MemberID: "m", AssignedAmount: dec(10)}}}
			},
			err: "cannot be shared",
		},
		{
			description: "installment and recurrence on one row",
			mutate: func(txn *Transaction) {
				txn.Installment = &InstallmentDetails{SeriesID: "s", Current: 1, Total: 3, OriginalAmount: dec(150)}
				txn.Recurrence = &RecurrenceDetails{Frequency: Monthly, RecurrenceDay: 5}
			},
			err: "cannot be both an installment and a recurring template",
		},
		{
			description: "installment number out of range",
			mutate: func(txn *Transaction) {
				txn.Installment = &InstallmentDetails{SeriesID: "s", Current: 4, Total: 3, OriginalAmount: dec(150)}
			},
			err: "Installment number out of range",
		},
		{
			description: "monthly recurrence needs a day",
			mutate: func(txn *Transaction) {
				txn.Recurrence = &RecurrenceDetails{Frequency: Monthly}
			},
			err: "Monthly recurrence day must be between 1 and 31",
		},
		{
			description: "shares exceed the amount",
			mutate: func(txn *Transaction) {
				txn.Split = &SplitDetails{SharedWith: []Share{
					{MemberID: "a", AssignedAmount: dec(100)},
					{MemberID: "b", AssignedAmount: dec(60)},
				}}
			},
			err: "Shared amounts exceed the transaction amount",
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			txn := validExpense()
			tc.mutate(&txn)
			err := ValidateTransaction(txn)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestNewTransactionRejectsInvalid(t *testing.T) {
	txn := validExpense()
	txn.Amount = decimal.Zero
	_, err := NewTransaction(txn)
	assert.Error(t, err)
}

func TestSignedAmount(t *testing.T) {
	for _, tc := range []struct {
		description string
		txnType     TransactionType
		refund      bool
		expected    decimal.Decimal
	}{
		{"expense subtracts", Expense, false, dec(-150)},
		{"refunded expense adds back", Expense, true, dec(150)},
		{"income adds", Income, false, dec(150)},
		{"refunded income subtracts", Income, true, dec(-150)},
		{"transfer subtracts from source", Transfer, false, dec(-150)},
	} {
		t.Run(tc.description, func(t *testing.T) {
			txn := validExpense()
			txn.Type = tc.txnType
			txn.Refund = tc.refund
			assert.True(t, tc.expected.Equal(txn.SignedAmount()), txn.SignedAmount().String())
		})
	}
}
