package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"merchsync/internal/models"
)

func TestRevenueExactDecimalArithmetic(t *testing.T) {
	totals := RevenueByCurrency([]models.Order{
		{TotalPrice: "19.99", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
		{TotalPrice: "0.01", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
		{TotalPrice: "0.10", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
	})

	// No floating-point drift: 19.99 + 0.01 + 0.10 is exactly 20.1.
	assert.Equal(t, "20.1", totals["USD"])
}

func TestRevenuePerCurrency(t *testing.T) {
	totals := RevenueByCurrency([]models.Order{
		{TotalPrice: "10.00", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
		{TotalPrice: "5.50", Currency: "EUR", FinancialStatus: models.FinancialStatusPaid},
	})

	assert.Equal(t, "10", totals["USD"])
	assert.Equal(t, "5.5", totals["EUR"])
}

func TestRevenueSkipsRefundedAndMalformed(t *testing.T) {
	totals := RevenueByCurrency([]models.Order{
		{TotalPrice: "10.00", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
		{TotalPrice: "99.00", Currency: "USD", FinancialStatus: models.FinancialStatusRefunded},
		{TotalPrice: "not-a-number", Currency: "USD", FinancialStatus: models.FinancialStatusPaid},
	})

	assert.Equal(t, "10", totals["USD"])
}
