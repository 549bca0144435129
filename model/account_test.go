package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() Account {
	return Account{
		ID:          "card-1",
		Name:        "Platinum",
		Type:        CreditCard,
		Currency:    "BRL",
		CreditLimit: dec(5000),
		ClosingDay:  1,
		DueDay:      10,
	}
}

func TestValidateAccount(t *testing.T) {
	for _, tc := range []struct {
		description string
		mutate      func(*Account)
		err         string
	}{
		{
			description: "happy path credit card",
			mutate:      func(*Account) {},
		},
		{
			description: "missing name",
			mutate:      func(a *Account) { a.Name = "" },
			err:         "name must not be empty",
		},
		{
			description: "unknown type",
			mutate:      func(a *Account) { a.Type = "WALLET" },
			err:         "Unknown account type",
		},
		{
			description: "closing day out of range",
			mutate:      func(a *Account) { a.ClosingDay = 32 },
			err:         "closing day must be between 1 and 31",
		},
		{
			description: "billing days on a checking account",
			mutate: func(a *Account) {
				a.Type = Checking
				a.CreditLimit = dec(0)
			},
			err: "only valid on credit card accounts",
		},
		{
			description: "unknown currency",
			mutate:      func(a *Account) { a.Currency = "XQZ" },
			err:         "Unknown currency code",
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			account := validCard()
			tc.mutate(&account)
			err := ValidateAccount(account)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestLiquid(t *testing.T) {
	assert.True(t, Account{Type: Checking}.Liquid())
	assert.True(t, Account{Type: Savings}.Liquid())
	assert.True(t, Account{Type: Cash}.Liquid())
	assert.False(t, Account{Type: CreditCard}.Liquid())
	assert.False(t, Account{Type: Investment}.Liquid())
}

func TestNewAccountSet(t *testing.T) {
	set := NewAccountSet([]Account{
		{ID: "a", Name: "A", Type: Checking},
		{ID: "b", Name: "B", Type: Cash, Deleted: true},
	})
	_, ok := set["a"]
	assert.True(t, ok)
	_, ok = set["b"]
	assert.False(t, ok, "deleted accounts are not referenceable")
}
