package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
)

// SubmissionResult is the canonical outcome of one transformation+submission
// call, created only after a gateway round trip.
type SubmissionResult struct {
	RecordID   snowflake.ID            `json:"record_id"`
	Success    bool                    `json:"success"`
	Status     submissiondomain.Status `json:"status"`
	StatusCode string                  `json:"status_code"`
	Reference  string                  `json:"reference,omitempty"`
	Message    string                  `json:"message,omitempty"`

	// RawResponse is the gateway body untouched, for audit. Tax-authority
	// error messages are often the only actionable diagnostic.
	RawResponse string `json:"raw_response,omitempty"`
}

// Service transforms stored documents and submits them to the gateway.
type Service interface {
	SubmitInvoice(ctx context.Context, number int64) (*SubmissionResult, error)
	SubmitCreditNote(ctx context.Context, number int64) (*SubmissionResult, error)
}
