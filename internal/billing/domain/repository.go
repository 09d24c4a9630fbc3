package domain

import (
	"context"
	"time"
)

type Repository interface {
	FindInvoiceByNumber(ctx context.Context, number int64, kind DocumentKind) (*Invoice, error)
	FindDetails(ctx context.Context, invoice *Invoice) ([]InvoiceDetail, error)
	FindCustomer(ctx context.Context, id int64) (*Customer, error)

	// FindCompany loads the issuing entity for this request. The result is a
	// request-scoped value; callers must not retain it across requests.
	FindCompany(ctx context.Context) (*Company, error)

	// FindActiveResolution returns the numbering authorization covering the
	// document number at the given time, or ErrNoActiveResolution.
	FindActiveResolution(ctx context.Context, number int64, at time.Time) (*Resolution, error)
}
