package domain

import "github.com/shopspring/decimal"

// CurrencySymbol is the fixed display symbol used in exported reports.
const CurrencySymbol = "₹"

func init() {
	// Clients expect amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
