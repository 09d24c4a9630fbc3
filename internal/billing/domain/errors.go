package domain

import "errors"

var (
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrCompanyNotFound    = errors.New("company_not_found")
	ErrNoActiveResolution = errors.New("no_active_resolution")
)
