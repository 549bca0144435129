package model

import (
	"github.com/mfcoelho/bolso/currency"
	sErrors "github.com/mfcoelho/bolso/errors"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account. Credit cards carry billing-cycle fields
// the other types must not have.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
)

func (t AccountType) valid() bool {
	switch t {
	case Checking, Savings, CreditCard, Cash, Investment:
		return true
	}
	return false
}

// Account is a user's money account. Balance is derived from the transaction
// log; InitialBalance seeds it.
type Account struct {
	ID             string
	Name           string
	Type           AccountType
	Currency       string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	Deleted        bool

	// credit card only
	CreditLimit decimal.Decimal
	ClosingDay  int
	DueDay      int
}

// Liquid reports whether this account's balance counts toward spendable
// funds. Credit card balances are committed debt, investments are locked up.
func (a Account) Liquid() bool {
	switch a.Type {
	case Checking, Savings, Cash:
		return true
	}
	return false
}

// ValidateAccount collects every problem with the account instead of stopping
// at the first one
func ValidateAccount(a Account) error {
	var errs sErrors.Errors
	errs.ErrIf(a.ID == "", "Account ID must not be empty")
	errs.ErrIf(a.Name == "", "Account name must not be empty")
	if !errs.ErrIf(!a.Type.valid(), "Unknown account type: %q", a.Type) {
		if a.Type == CreditCard {
			errs.ErrIf(a.ClosingDay < 1 || a.ClosingDay > 31, "Credit card closing day must be between 1 and 31: %d", a.ClosingDay)
			errs.ErrIf(a.DueDay < 1 || a.DueDay > 31, "Credit card due day must be between 1 and 31: %d", a.DueDay)
			errs.ErrIf(a.CreditLimit.IsNegative(), "Credit limit must not be negative: %s", a.CreditLimit)
		} else {
			errs.ErrIf(a.ClosingDay != 0 || a.DueDay != 0, "Closing and due days are only valid on credit card accounts")
		}
	}
	errs.ErrIf(a.Currency != "" && !currency.Valid(a.Currency), "Unknown currency code: %q", a.Currency)
	return errs.ErrOrNil()
}

// AccountSet indexes accounts by ID for reference checks
type AccountSet map[string]Account

// NewAccountSet indexes the non-deleted accounts by ID
func NewAccountSet(accounts []Account) AccountSet {
	set := make(AccountSet, len(accounts))
	for _, account := range accounts {
		if !account.Deleted {
			set[account.ID] = account
		}
	}
	return set
}
