package domain

import "errors"

var (
	// ErrMissingReference: a credit note cannot exist without the authority
	// reference of an accepted original invoice.
	ErrMissingReference = errors.New("missing_billing_reference")

	// ErrReconciliationFailed: line sums and header totals could not be made
	// to agree. Fatal; the document must not be submitted.
	ErrReconciliationFailed = errors.New("reconciliation_failed")

	// ErrZeroQuantity: a residual adjustment required dividing by a line
	// quantity of zero.
	ErrZeroQuantity = errors.New("zero_quantity")

	// ErrInvalidIdentification: the counterparty or company identification
	// could not produce a check digit.
	ErrInvalidIdentification = errors.New("invalid_identification")
)
