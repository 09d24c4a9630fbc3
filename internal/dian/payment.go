package dian

import "time"

// Payment form and means codes from the authority's catalog.
const (
	PaymentFormImmediate = 1
	PaymentFormDeferred  = 2

	PaymentMethodCash        = 10
	PaymentMethodUnspecified = 30
	PaymentMethodTransfer    = 47
	PaymentMethodCard        = 48
)

// creditEpsilon tolerates float noise in upstream ledger balances: credit
// sales in the source system occasionally carry residuals under one cent.
const creditEpsilon = 0.01

// PaymentInput carries the raw per-channel balances of an invoice ledger row.
type PaymentInput struct {
	Card     float64
	Transfer float64
	Credit   float64
	Cash     float64

	TermDays  int
	IssueDate time.Time
}

// PaymentTerms is the resolved payment-form/payment-method pair.
type PaymentTerms struct {
	FormID   int
	MethodID int
	DueDate  time.Time
	TermDays int
}

// ResolvePayment infers the payment form and means from raw channel balances.
// First match wins: card, transfer, credit, then cash as the fallback. The
// decision table is total; it always produces a result.
func ResolvePayment(in PaymentInput) PaymentTerms {
	switch {
	case in.Card > 0:
		return PaymentTerms{
			FormID:   PaymentFormImmediate,
			MethodID: PaymentMethodCard,
			DueDate:  in.IssueDate,
		}
	case in.Transfer > 0:
		return PaymentTerms{
			FormID:   PaymentFormImmediate,
			MethodID: PaymentMethodTransfer,
			DueDate:  in.IssueDate,
		}
	case in.Credit > creditEpsilon:
		return PaymentTerms{
			FormID:   PaymentFormDeferred,
			MethodID: PaymentMethodUnspecified,
			DueDate:  in.IssueDate.AddDate(0, 0, in.TermDays),
			TermDays: in.TermDays,
		}
	default:
		return PaymentTerms{
			FormID:   PaymentFormImmediate,
			MethodID: PaymentMethodCash,
			DueDate:  in.IssueDate,
		}
	}
}
