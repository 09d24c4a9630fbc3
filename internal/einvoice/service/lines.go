package service

import (
	"fmt"
	"math"
	"strings"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/dian"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/money"
)

// genericLineDescription is emitted when a detail row carries no usable text.
const genericLineDescription = "VENTA DE BIENES Y/O SERVICIOS"

// buildLine converts one raw detail row into a normalized line with its own
// tax breakdown. tolerance is the precision-correction threshold: raw tax
// amounts within tolerance of the recomputed value are replaced; larger
// discrepancies propagate untouched and are handled by reconciliation.
func buildLine(detail billingdomain.InvoiceDetail, index int, tolerance float64, brackets []dian.RateBracket) einvoicedomain.Line {
	quantity := detail.Quantity
	lineExtension := money.Round(detail.UnitPrice*quantity - detail.DiscountAmount)

	percent := dian.ClassifyRateWith(lineExtension, detail.TaxAmount, brackets)

	taxAmount := money.Round(detail.TaxAmount)
	candidate := money.Round(lineExtension * percent / 100)
	if math.Abs(candidate-detail.TaxAmount) < tolerance {
		taxAmount = candidate
	}

	return einvoicedomain.Line{
		UnitMeasureID:            einvoicedomain.UnitMeasureEach,
		InvoicedQuantity:         quantity,
		LineExtensionAmount:      lineExtension,
		Description:              lineDescription(detail),
		PriceAmount:              money.Round(detail.UnitPrice),
		Code:                     lineCode(detail, index),
		TypeItemIdentificationID: einvoicedomain.ItemIdentificationStandard,
		BaseQuantity:             quantity,
		FreeOfChargeIndicator:    lineExtension == 0,
		TaxTotals: []einvoicedomain.TaxTotal{
			{
				TaxID:         einvoicedomain.TaxIDVAT,
				TaxAmount:     taxAmount,
				TaxableAmount: lineExtension,
				Percent:       percent,
			},
		},
	}
}

// lineDescription picks the line text. Priority: the row's free-text
// description, then the product name, then the generic sales description.
func lineDescription(detail billingdomain.InvoiceDetail) string {
	if s := strings.TrimSpace(detail.Description); s != "" {
		return s
	}
	if s := strings.TrimSpace(detail.ProductName); s != "" {
		return s
	}
	return genericLineDescription
}

// lineCode picks the external product code. Priority: the reference code,
// then the internal code, then a positional fallback.
func lineCode(detail billingdomain.InvoiceDetail, index int) string {
	if s := strings.TrimSpace(detail.ProductRef); s != "" {
		return s
	}
	if s := strings.TrimSpace(detail.ProductCode); s != "" {
		return s
	}
	return fmt.Sprintf("ITEM-%d", index+1)
}
