package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/config"
	"github.com/contaflow/facturel/internal/dian"
)

func defaultBrackets() []dian.RateBracket {
	return rateBrackets(config.DefaultEngineConfig())
}

func TestBuildLineComputesExtension(t *testing.T) {
	line := buildLine(billingdomain.InvoiceDetail{
		Description:    "Cemento gris 50kg",
		ProductRef:     "CEM-50",
		Quantity:       3,
		UnitPrice:      25000,
		TaxAmount:      14250,
		DiscountAmount: 0,
	}, 0, 1.0, defaultBrackets())

	assert.Equal(t, 75000.0, line.LineExtensionAmount)
	assert.Equal(t, "Cemento gris 50kg", line.Description)
	assert.Equal(t, "CEM-50", line.Code)
	assert.Equal(t, 3.0, line.InvoicedQuantity)
	assert.False(t, line.FreeOfChargeIndicator)

	require.Len(t, line.TaxTotals, 1)
	assert.Equal(t, 19.0, line.TaxTotals[0].Percent)
	assert.Equal(t, 14250.0, line.TaxTotals[0].TaxAmount)
	assert.Equal(t, 75000.0, line.TaxTotals[0].TaxableAmount)
}

func TestBuildLineAppliesDiscount(t *testing.T) {
	line := buildLine(billingdomain.InvoiceDetail{
		Quantity:       2,
		UnitPrice:      10000,
		DiscountAmount: 5000,
		TaxAmount:      2850,
	}, 0, 1.0, defaultBrackets())

	assert.Equal(t, 15000.0, line.LineExtensionAmount)
}

func TestBuildLinePrecisionCorrection(t *testing.T) {
	// Raw tax drifted by 0.21 from the exact 19% value; inside the tolerance
	// the recomputed amount wins.
	line := buildLine(billingdomain.InvoiceDetail{
		Quantity:  1,
		UnitPrice: 100,
		TaxAmount: 19.21,
	}, 0, 1.0, defaultBrackets())

	assert.Equal(t, 19.0, line.TaxTotals[0].TaxAmount)
	assert.Equal(t, 19.0, line.TaxTotals[0].Percent)
}

func TestBuildLineLargeDiscrepancyPropagates(t *testing.T) {
	// A discrepancy past the tolerance is not a float artifact; keep the raw
	// amount and let reconciliation deal with it.
	line := buildLine(billingdomain.InvoiceDetail{
		Quantity:  1,
		UnitPrice: 100,
		TaxAmount: 25,
	}, 0, 1.0, defaultBrackets())

	assert.Equal(t, 25.0, line.TaxTotals[0].TaxAmount)
}

func TestBuildLineZeroExtensionIsFreeOfCharge(t *testing.T) {
	line := buildLine(billingdomain.InvoiceDetail{
		Quantity:  1,
		UnitPrice: 0,
		TaxAmount: 0,
	}, 0, 1.0, defaultBrackets())

	assert.True(t, line.FreeOfChargeIndicator)
	assert.Equal(t, 0.0, line.TaxTotals[0].Percent)
}

func TestLineDescriptionFallbacks(t *testing.T) {
	assert.Equal(t, "desc", lineDescription(billingdomain.InvoiceDetail{Description: " desc ", ProductName: "name"}))
	assert.Equal(t, "name", lineDescription(billingdomain.InvoiceDetail{ProductName: "name"}))
	assert.Equal(t, genericLineDescription, lineDescription(billingdomain.InvoiceDetail{}))
}

func TestLineCodeFallbacks(t *testing.T) {
	assert.Equal(t, "REF-1", lineCode(billingdomain.InvoiceDetail{ProductRef: "REF-1", ProductCode: "COD-1"}, 0))
	assert.Equal(t, "COD-1", lineCode(billingdomain.InvoiceDetail{ProductCode: "COD-1"}, 0))
	assert.Equal(t, "ITEM-3", lineCode(billingdomain.InvoiceDetail{}, 2))
}
