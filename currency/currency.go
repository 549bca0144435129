package currency

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Valid reports whether code is a well-formed ISO 4217 currency code
func Valid(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// Format renders an amount with its currency symbol for display only, the
// decimal value itself never goes through floating point math
func Format(code string, amount decimal.Decimal) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2)
	}
	printer := message.NewPrinter(language.English)
	value, _ := amount.Float64()
	return printer.Sprint(currency.Symbol(unit.Amount(value)))
}

// Rates is a simple conversion lookup: units of the base currency per one
// unit of the keyed currency
type Rates map[string]decimal.Decimal

// Convert translates an amount between two known currencies through the base
func (r Rates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := r[from]
	if !ok {
		return decimal.Zero, errors.Errorf("No conversion rate for currency: %q", from)
	}
	toRate, ok := r[to]
	if !ok {
		return decimal.Zero, errors.Errorf("No conversion rate for currency: %q", to)
	}
	if toRate.IsZero() {
		return decimal.Zero, errors.Errorf("Invalid zero conversion rate for currency: %q", to)
	}
	return amount.Mul(fromRate).Div(toRate), nil
}
