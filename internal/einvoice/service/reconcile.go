package service

import (
	"fmt"
	"math"

	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/money"
)

// headerTotals are the header-declared amounts being reconciled against the
// line set. Reconciliation may rewrite them: line-level truth wins.
type headerTotals struct {
	TaxableAmount float64
	TaxAmount     float64
	Total         float64
}

// reconcileOutcome reports what reconciliation changed, for logging and
// metrics.
type reconcileOutcome struct {
	HeaderTaxRewritten bool
	LastLineAdjusted   bool
}

// reconcile forces exact agreement between the line sums and the header
// totals. The gateway rejects any document where they disagree by even one
// cent, so a residual after adjustment is fatal.
func reconcile(lines []einvoicedomain.Line, header *headerTotals, tolerance float64) (reconcileOutcome, error) {
	var outcome reconcileOutcome
	if len(lines) == 0 {
		return outcome, fmt.Errorf("%w: no lines", einvoicedomain.ErrReconciliationFailed)
	}

	sumTax, sumBase := sumLines(lines)

	// Line-level truth wins over the header-declared tax amount.
	if math.Abs(header.TaxAmount-sumTax) > tolerance {
		header.TaxAmount = sumTax
		header.Total = money.Round(header.TaxableAmount + header.TaxAmount)
		outcome.HeaderTaxRewritten = true
	}

	// Defensive: should be unreachable after the rewrite above.
	if residual := money.Round(header.TaxAmount - sumTax); math.Abs(residual) > tolerance {
		last := len(lines) - 1
		lines[last].TaxTotals[0].TaxAmount = money.Round(lines[last].TaxTotals[0].TaxAmount + residual)
		outcome.LastLineAdjusted = true
	}

	// The taxable base is authoritative on the header side; absorb any
	// residual into the least-significant line.
	if residual := money.Round(header.TaxableAmount - sumBase); math.Abs(residual) > tolerance {
		last := len(lines) - 1
		line := &lines[last]
		line.LineExtensionAmount = money.Round(line.LineExtensionAmount + residual)
		line.TaxTotals[0].TaxableAmount = line.LineExtensionAmount
		if line.InvoicedQuantity == 0 {
			return outcome, fmt.Errorf("%w: line %d", einvoicedomain.ErrZeroQuantity, last+1)
		}
		line.PriceAmount = money.Round(line.LineExtensionAmount / line.InvoicedQuantity)
		outcome.LastLineAdjusted = true
	}

	sumTax, sumBase = sumLines(lines)
	if math.Abs(header.TaxAmount-sumTax) > tolerance || math.Abs(header.TaxableAmount-sumBase) > tolerance {
		return outcome, fmt.Errorf("%w: header tax %.2f vs lines %.2f, header base %.2f vs lines %.2f",
			einvoicedomain.ErrReconciliationFailed, header.TaxAmount, sumTax, header.TaxableAmount, sumBase)
	}

	return outcome, nil
}

func sumLines(lines []einvoicedomain.Line) (sumTax, sumBase float64) {
	for _, line := range lines {
		for _, tt := range line.TaxTotals {
			sumTax += tt.TaxAmount
		}
		sumBase += line.LineExtensionAmount
	}
	return money.Round(sumTax), money.Round(sumBase)
}
