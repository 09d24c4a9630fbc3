// Package service implements the transformation engine: line building, tax
// classification, monetary reconciliation, document assembly and gateway
// submission, with one audit record per round trip.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/clock"
	"github.com/contaflow/facturel/internal/config"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/gateway"
	"github.com/contaflow/facturel/internal/observability/logger"
	"github.com/contaflow/facturel/internal/observability/metrics"
	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
	"go.uber.org/fx"
)

// ServiceParam defines dependencies for the service.
type ServiceParam struct {
	fx.In

	Billing     billingdomain.Repository
	Submissions submissiondomain.Repository
	Gateway     *gateway.Client
	Metrics     *metrics.Metrics
	Clock       clock.Clock
	Engine      *config.EngineConfigHolder
	Node        *snowflake.Node
	Config      config.Config
	Logger      *zap.Logger
}

type service struct {
	billing     billingdomain.Repository
	submissions submissiondomain.Repository
	gateway     *gateway.Client
	metrics     *metrics.Metrics
	clock       clock.Clock
	engine      *config.EngineConfigHolder
	node        *snowflake.Node
	cfg         config.Config
	log         *zap.Logger
}

// NewService creates the transformation service.
func NewService(p ServiceParam) einvoicedomain.Service {
	return &service{
		billing:     p.Billing,
		submissions: p.Submissions,
		gateway:     p.Gateway,
		metrics:     p.Metrics,
		clock:       p.Clock,
		engine:      p.Engine,
		node:        p.Node,
		cfg:         p.Config,
		log:         p.Logger.Named("einvoice.service"),
	}
}

func (s *service) SubmitInvoice(ctx context.Context, number int64) (*einvoicedomain.SubmissionResult, error) {
	return s.submit(ctx, number, billingdomain.KindInvoice)
}

func (s *service) SubmitCreditNote(ctx context.Context, number int64) (*einvoicedomain.SubmissionResult, error) {
	return s.submit(ctx, number, billingdomain.KindCreditNote)
}

func (s *service) submit(ctx context.Context, number int64, kind billingdomain.DocumentKind) (*einvoicedomain.SubmissionResult, error) {
	log := logger.WithContext(ctx, s.log)

	in, err := s.loadInput(ctx, number, kind)
	if err != nil {
		return nil, err
	}

	doc, outcome, err := assembleDocument(*in, s.engine.Get(), s.clock.Now())
	if err != nil {
		return nil, err
	}

	gatewayKind := einvoicedomain.KindInvoice
	if kind == billingdomain.KindCreditNote {
		gatewayKind = einvoicedomain.KindCreditNote
	}

	if outcome.HeaderTaxRewritten {
		log.Info("header_tax_rewritten", zap.Int64("number", number))
		s.metrics.RecordReconciliationAdjustment(ctx, "header_tax")
	}
	if outcome.LastLineAdjusted {
		log.Info("last_line_adjusted", zap.Int64("number", number))
		s.metrics.RecordReconciliationAdjustment(ctx, "last_line")
	}

	start := s.clock.Now()
	result, err := s.gateway.Submit(ctx, gatewayKind, doc)
	if err != nil {
		s.metrics.RecordSubmission(ctx, gatewayKind, "transport_error")
		return nil, err
	}
	s.metrics.RecordGatewayRoundTrip(ctx, gatewayKind, s.clock.Now().Sub(start))

	record := s.buildRecord(gatewayKind, number, result)
	if err := s.submissions.Create(ctx, record); err != nil {
		// The gateway already has the document; losing the audit row is worse
		// than surfacing a storage error, so fail loudly.
		return nil, fmt.Errorf("persist submission record: %w", err)
	}
	s.metrics.RecordSubmission(ctx, gatewayKind, string(record.Status))

	log.Info("document_submitted",
		zap.String("kind", gatewayKind),
		zap.Int64("number", number),
		zap.String("status", string(record.Status)),
		zap.String("status_code", record.StatusCode),
	)

	return &einvoicedomain.SubmissionResult{
		RecordID:    record.ID,
		Success:     result.Accepted(),
		Status:      record.Status,
		StatusCode:  record.StatusCode,
		Reference:   record.Reference,
		Message:     record.Message,
		RawResponse: rawResponseString(result),
	}, nil
}

// loadInput gathers every row the assembler needs. For credit notes the
// original invoice and its accepted authority reference are resolved here,
// before any gateway traffic.
func (s *service) loadInput(ctx context.Context, number int64, kind billingdomain.DocumentKind) (*assembleInput, error) {
	invoice, err := s.billing.FindInvoiceByNumber(ctx, number, kind)
	if err != nil {
		return nil, err
	}

	details, err := s.billing.FindDetails(ctx, invoice)
	if err != nil {
		return nil, err
	}

	// An unknown counterparty is normal; the assembler substitutes the
	// generic final consumer.
	var customer *billingdomain.Customer
	if invoice.CustomerID != 0 {
		customer, err = s.billing.FindCustomer(ctx, int64(invoice.CustomerID))
		if err != nil && !errors.Is(err, billingdomain.ErrCustomerNotFound) {
			return nil, err
		}
	}

	company, err := s.billing.FindCompany(ctx)
	if err != nil {
		return nil, err
	}

	resolution, err := s.billing.FindActiveResolution(ctx, number, invoice.IssueDate)
	if err != nil {
		return nil, err
	}

	in := &assembleInput{
		Invoice:     invoice,
		Details:     details,
		Customer:    customer,
		Company:     company,
		Resolution:  resolution,
		Environment: s.documentEnvironment(),
	}

	if kind == billingdomain.KindCreditNote {
		if invoice.RefNumber == nil {
			return nil, fmt.Errorf("%w: credit note %d has no original invoice", einvoicedomain.ErrMissingReference, number)
		}
		original, err := s.billing.FindInvoiceByNumber(ctx, *invoice.RefNumber, billingdomain.KindInvoice)
		if err != nil {
			return nil, err
		}
		accepted, err := s.submissions.LatestAccepted(ctx, einvoicedomain.KindInvoice, original.Number)
		if err != nil {
			if errors.Is(err, submissiondomain.ErrNotFound) {
				return nil, fmt.Errorf("%w: invoice %d was never accepted", einvoicedomain.ErrMissingReference, original.Number)
			}
			return nil, err
		}
		in.Original = original
		in.OriginalReference = accepted.Reference
	}

	return in, nil
}

func (s *service) documentEnvironment() int {
	if s.cfg.Gateway.Production {
		return einvoicedomain.EnvironmentProduction
	}
	return einvoicedomain.EnvironmentTest
}

func (s *service) buildRecord(kind string, number int64, result *gateway.Result) *submissiondomain.Record {
	status := submissiondomain.StatusRejected
	switch {
	case result.Accepted():
		status = submissiondomain.StatusAccepted
	case result.ProcessingError():
		status = submissiondomain.StatusError
	}

	raw := datatypes.JSONMap{}
	if result.Raw != nil {
		raw = datatypes.JSONMap(result.Raw)
	} else if result.Message != "" {
		raw = datatypes.JSONMap{"body": result.Message}
	}

	return &submissiondomain.Record{
		ID:             s.node.Generate(),
		DocumentKind:   kind,
		DocumentNumber: number,
		Status:         status,
		StatusCode:     result.StatusCode,
		Reference:      result.Reference,
		Message:        result.Message,
		RawBody:        string(result.Body),
		RawResponse:    raw,
		CreatedAt:      s.clock.Now(),
	}
}

func rawResponseString(result *gateway.Result) string {
	if len(result.Body) > 0 {
		return string(result.Body)
	}
	return result.Message
}
