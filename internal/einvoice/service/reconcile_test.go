package service

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/money"
)

const testTolerance = 0.001

func taxedLine(base, tax, quantity float64) einvoicedomain.Line {
	return einvoicedomain.Line{
		InvoicedQuantity:    quantity,
		LineExtensionAmount: base,
		PriceAmount:         base / quantity,
		TaxTotals: []einvoicedomain.TaxTotal{
			{TaxID: einvoicedomain.TaxIDVAT, TaxAmount: tax, TaxableAmount: base, Percent: 19},
		},
	}
}

func TestReconcileAgreementUntouched(t *testing.T) {
	lines := []einvoicedomain.Line{
		taxedLine(50000, 9500, 1),
		taxedLine(50000, 9500, 2),
	}
	header := headerTotals{TaxableAmount: 100000, TaxAmount: 19000, Total: 119000}

	outcome, err := reconcile(lines, &header, testTolerance)

	require.NoError(t, err)
	assert.False(t, outcome.HeaderTaxRewritten)
	assert.False(t, outcome.LastLineAdjusted)
	assert.Equal(t, 19000.0, header.TaxAmount)
	assert.Equal(t, 119000.0, header.Total)
}

func TestReconcileHeaderTaxRewrite(t *testing.T) {
	// Header declares 19000 but the lines sum to 18999.99; line-level truth
	// wins and the total follows.
	lines := []einvoicedomain.Line{
		taxedLine(50000, 9500.00, 1),
		taxedLine(50000, 9499.99, 1),
	}
	header := headerTotals{TaxableAmount: 100000, TaxAmount: 19000, Total: 119000}

	outcome, err := reconcile(lines, &header, testTolerance)

	require.NoError(t, err)
	assert.True(t, outcome.HeaderTaxRewritten)
	assert.Equal(t, 18999.99, header.TaxAmount)
	assert.Equal(t, 118999.99, header.Total)
}

func TestReconcileBaseResidualAdjustsLastLine(t *testing.T) {
	// Lines under-report the base by one cent; the last line absorbs it and
	// its unit price is recomputed.
	lines := []einvoicedomain.Line{
		taxedLine(49999.99, 9500, 1),
		taxedLine(50000.00, 9500, 2),
	}
	header := headerTotals{TaxableAmount: 100000, TaxAmount: 19000, Total: 119000}

	outcome, err := reconcile(lines, &header, testTolerance)

	require.NoError(t, err)
	assert.True(t, outcome.LastLineAdjusted)
	assert.Equal(t, 50000.01, lines[1].LineExtensionAmount)
	assert.Equal(t, 50000.01, lines[1].TaxTotals[0].TaxableAmount)
	assert.Equal(t, 25000.01, lines[1].PriceAmount)
}

func TestReconcileRandomizedLineSets(t *testing.T) {
	// Any line set with nonzero quantities must leave the header and line
	// sums in exact agreement, regardless of how far apart they started.
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 5000; i++ {
		count := 1 + rng.Intn(8)
		lines := make([]einvoicedomain.Line, 0, count)
		var sumBase, sumTax float64
		for j := 0; j < count; j++ {
			quantity := float64(1 + rng.Intn(20))
			base := money.Round(rng.Float64() * 500000)
			tax := money.Round(base * 0.19)
			if rng.Intn(3) == 0 {
				// Inject cent-level drift the way rounded line taxes do.
				tax = money.Round(tax + float64(rng.Intn(5)-2)*0.01)
			}
			lines = append(lines, taxedLine(base, tax, quantity))
			sumBase += base
			sumTax += tax
		}
		header := headerTotals{
			TaxableAmount: money.Round(sumBase + float64(rng.Intn(7)-3)*0.01),
			TaxAmount:     money.Round(sumTax + float64(rng.Intn(7)-3)*0.01),
		}
		header.Total = money.Round(header.TaxableAmount + header.TaxAmount)

		_, err := reconcile(lines, &header, testTolerance)
		require.NoError(t, err, "iteration %d", i)

		gotTax, gotBase := sumLines(lines)
		require.InDelta(t, header.TaxAmount, gotTax, testTolerance, "iteration %d", i)
		require.InDelta(t, header.TaxableAmount, gotBase, testTolerance, "iteration %d", i)
		require.InDelta(t, money.Round(header.TaxableAmount+header.TaxAmount), header.Total, testTolerance, "iteration %d", i)
	}
}

func TestReconcileZeroQuantityGuard(t *testing.T) {
	lines := []einvoicedomain.Line{
		taxedLine(50000, 9500, 1),
		{
			InvoicedQuantity:    0,
			LineExtensionAmount: 49999.99,
			TaxTotals: []einvoicedomain.TaxTotal{
				{TaxID: einvoicedomain.TaxIDVAT, TaxAmount: 9500, TaxableAmount: 49999.99, Percent: 19},
			},
		},
	}
	header := headerTotals{TaxableAmount: 100000, TaxAmount: 19000, Total: 119000}

	_, err := reconcile(lines, &header, testTolerance)

	require.Error(t, err)
	assert.True(t, errors.Is(err, einvoicedomain.ErrZeroQuantity))
}

func TestReconcileEmptyLinesFatal(t *testing.T) {
	header := headerTotals{TaxableAmount: 100, TaxAmount: 19, Total: 119}

	_, err := reconcile(nil, &header, testTolerance)

	require.Error(t, err)
	assert.True(t, errors.Is(err, einvoicedomain.ErrReconciliationFailed))
}
