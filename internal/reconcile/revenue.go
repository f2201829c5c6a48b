package reconcile

import (
	"github.com/shopspring/decimal"

	"merchsync/internal/models"
)

// RevenueByCurrency totals order prices per currency. Arithmetic runs on
// exact decimals parsed from the stored strings; the strings themselves
// are never re-rounded on the way in or out. Orders with a malformed
// total are skipped, same as any other unreconcilable record.
func RevenueByCurrency(orders []models.Order) map[string]string {
	totals := make(map[string]decimal.Decimal)
	for _, order := range orders {
		if order.FinancialStatus == models.FinancialStatusRefunded {
			continue
		}
		amount, err := decimal.NewFromString(order.TotalPrice)
		if err != nil {
			continue
		}
		currency := order.Currency
		if currency == "" {
			currency = "USD"
		}
		totals[currency] = totals[currency].Add(amount)
	}

	out := make(map[string]string, len(totals))
	for currency, total := range totals {
		out[currency] = total.String()
	}
	return out
}
