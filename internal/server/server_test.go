package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/config"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/observability"
	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
)

type stubService struct {
	invoiceResult *einvoicedomain.SubmissionResult
	invoiceErr    error
	noteResult    *einvoicedomain.SubmissionResult
	noteErr       error

	lastNumber int64
}

func (s *stubService) SubmitInvoice(ctx context.Context, number int64) (*einvoicedomain.SubmissionResult, error) {
	s.lastNumber = number
	return s.invoiceResult, s.invoiceErr
}

func (s *stubService) SubmitCreditNote(ctx context.Context, number int64) (*einvoicedomain.SubmissionResult, error) {
	s.lastNumber = number
	return s.noteResult, s.noteErr
}

type stubSubmissions struct {
	record *submissiondomain.Record
	err    error
}

func (s *stubSubmissions) Create(ctx context.Context, record *submissiondomain.Record) error {
	return nil
}

func (s *stubSubmissions) FindByID(ctx context.Context, id int64) (*submissiondomain.Record, error) {
	return s.record, s.err
}

func (s *stubSubmissions) LatestAccepted(ctx context.Context, kind string, number int64) (*submissiondomain.Record, error) {
	return s.record, s.err
}

func newTestServer(svc einvoicedomain.Service, subs submissiondomain.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(observability.Config{})
	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{},
		EinvoiceSvc: svc,
		Submissions: subs,
	})
	return engine
}

func TestSubmitInvoiceRoute(t *testing.T) {
	svc := &stubService{
		invoiceResult: &einvoicedomain.SubmissionResult{
			Success:    true,
			Status:     submissiondomain.StatusAccepted,
			StatusCode: "00",
			Reference:  "cufe-1",
		},
	}
	engine := newTestServer(svc, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/990/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(990), svc.lastNumber)

	var result einvoicedomain.SubmissionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "cufe-1", result.Reference)
}

func TestSubmitInvoiceRouteRejected(t *testing.T) {
	svc := &stubService{
		invoiceResult: &einvoicedomain.SubmissionResult{
			Success:    false,
			Status:     submissiondomain.StatusRejected,
			StatusCode: "04",
		},
	}
	engine := newTestServer(svc, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/990/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitInvoiceRouteInvalidNumber(t *testing.T) {
	engine := newTestServer(&stubService{}, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/abc/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestSubmitInvoiceRouteNotFound(t *testing.T) {
	svc := &stubService{
		invoiceErr: fmt.Errorf("%w: number 990", billingdomain.ErrInvoiceNotFound),
	}
	engine := newTestServer(svc, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/990/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitCreditNoteRouteMissingReference(t *testing.T) {
	svc := &stubService{
		noteErr: fmt.Errorf("%w: credit note 77", einvoicedomain.ErrMissingReference),
	}
	engine := newTestServer(svc, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/credit-notes/77/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitInvoiceRouteNoResolution(t *testing.T) {
	svc := &stubService{
		invoiceErr: fmt.Errorf("%w: number 990", billingdomain.ErrNoActiveResolution),
	}
	engine := newTestServer(svc, &stubSubmissions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/990/submit", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "configuration_error")
}

func TestGetSubmissionRoute(t *testing.T) {
	record := &submissiondomain.Record{
		ID:             123,
		DocumentKind:   einvoicedomain.KindInvoice,
		DocumentNumber: 990,
		Status:         submissiondomain.StatusAccepted,
		StatusCode:     "00",
		Reference:      "cufe-1",
	}
	engine := newTestServer(&stubService{}, &stubSubmissions{record: record})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/submissions/123", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cufe-1")
}

func TestGetSubmissionRouteNotFound(t *testing.T) {
	engine := newTestServer(&stubService{}, &stubSubmissions{err: submissiondomain.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/submissions/123", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
