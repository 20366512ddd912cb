package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// String renders the amount with the currency code, e.g. "20.00 EUR".
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
