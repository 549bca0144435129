package model

import (
	"time"

	sErrors "github.com/mfcoelho/bolso/errors"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates the three transaction variants
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

func (t TransactionType) valid() bool {
	return t == Income || t == Expense || t == Transfer
}

// Frequency is how often a recurring template repeats
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

func (f Frequency) valid() bool {
	return f == Daily || f == Weekly || f == Monthly || f == Yearly
}

// InstallmentDetails links one charge to the purchase it was split from.
// Current is 1-based. The amounts of all rows sharing a SeriesID sum to
// exactly OriginalAmount. Anchor is the purchase's first charge date and
// survives anticipation, which only moves a row's Date.
type InstallmentDetails struct {
	SeriesID       string
	Current        int
	Total          int
	OriginalAmount decimal.Decimal
	Anchor         time.Time
}

// RecurrenceDetails marks a transaction as a template for the recurrence
// engine. LastGenerated is zero until the first occurrence is materialized.
type RecurrenceDetails struct {
	Frequency     Frequency
	RecurrenceDay int // MONTHLY anchor day-of-month
	LastGenerated time.Time
}

// Share is one counterparty's portion of a shared expense
type Share struct {
	MemberID       string
	Percentage     decimal.Decimal
	AssignedAmount decimal.Decimal
}

// SplitDetails records who shares an expense and who fronted the money.
// An empty PayerID means the user paid.
type SplitDetails struct {
	SharedWith []Share
	PayerID    string
}

// Transaction is a single-entry record against one account. The three
// variants share the scalar fields; the optional detail records may only
// appear on the variants that allow them, enforced by Validate.
type Transaction struct {
	ID                   string
	Date                 time.Time
	Description          string
	Amount               decimal.Decimal
	Type                 TransactionType
	Category             string
	AccountID            string
	DestinationAccountID string // transfers only
	Refund               bool
	Settled              bool
	Deleted              bool

	Installment *InstallmentDetails
	Recurrence  *RecurrenceDetails
	Split       *SplitDetails
}

// NewTransaction validates and returns the transaction. Nothing may be
// persisted from a failed construction.
func NewTransaction(txn Transaction) (Transaction, error) {
	if err := ValidateTransaction(txn); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// ValidateTransaction rejects amounts, dates and variant combinations that
// must never reach the store
func ValidateTransaction(txn Transaction) error {
	var errs sErrors.Errors
	errs.ErrIf(!txn.Amount.IsPositive(), "Transaction amount must be positive: %s", txn.Amount)
	errs.ErrIf(txn.Description == "", "Transaction description must not be empty")
	errs.ErrIf(txn.Date.IsZero(), "Transaction date must be set")
	errs.ErrIf(!txn.Type.valid(), "Unknown transaction type: %q", txn.Type)
	// a transaction awaiting payer resolution may lack an account, any other may not
	pendingPayer := txn.Split != nil && txn.Split.PayerID != ""
	errs.ErrIf(txn.AccountID == "" && !pendingPayer, "Transaction account must be set")

	if txn.Type == Transfer {
		if !errs.ErrIf(txn.DestinationAccountID == "", "Transfer destination account must be set") {
			errs.ErrIf(txn.DestinationAccountID == txn.AccountID, "Transfer destination must differ from the source account")
		}
		errs.ErrIf(txn.Installment != nil, "Transfers cannot be split into installments")
		errs.ErrIf(txn.Split != nil, "Transfers cannot be shared")
		errs.ErrIf(txn.Refund, "Transfers cannot be refunds")
	} else {
		errs.ErrIf(txn.DestinationAccountID != "", "Only transfers may have a destination account")
	}

	errs.ErrIf(txn.Installment != nil && txn.Recurrence != nil, "A transaction cannot be both an installment and a recurring template")

	if txn.Installment != nil {
		errs.ErrIf(txn.Installment.SeriesID == "", "Installment series ID must not be empty")
		errs.ErrIf(txn.Installment.Total < 2, "Installment series must have at least 2 installments: %d", txn.Installment.Total)
		errs.ErrIf(txn.Installment.Current < 1 || txn.Installment.Current > txn.Installment.Total,
			"Installment number out of range: %d of %d", txn.Installment.Current, txn.Installment.Total)
	}
	if txn.Recurrence != nil {
		errs.ErrIf(!txn.Recurrence.Frequency.valid(), "Unknown recurrence frequency: %q", txn.Recurrence.Frequency)
		if txn.Recurrence.Frequency == Monthly {
			errs.ErrIf(txn.Recurrence.RecurrenceDay < 1 || txn.Recurrence.RecurrenceDay > 31,
				"Monthly recurrence day must be between 1 and 31: %d", txn.Recurrence.RecurrenceDay)
		}
	}
	if txn.Split != nil {
		assigned := decimal.Zero
		for _, share := range txn.Split.SharedWith {
			errs.ErrIf(share.MemberID == "", "Shared member ID must not be empty")
			errs.ErrIf(share.AssignedAmount.IsNegative(), "Shared amount must not be negative: %s", share.AssignedAmount)
			assigned = assigned.Add(share.AssignedAmount)
		}
		errs.ErrIf(assigned.GreaterThan(txn.Amount), "Shared amounts exceed the transaction amount: %s > %s", assigned, txn.Amount)
	}
	return errs.ErrOrNil()
}

// SignedAmount is the transaction's effect on its source account's balance
func (t Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case Expense:
		if t.Refund {
			return t.Amount
		}
		return t.Amount.Neg()
	case Income:
		if t.Refund {
			return t.Amount.Neg()
		}
		return t.Amount
	case Transfer:
		return t.Amount.Neg()
	}
	return decimal.Zero
}
