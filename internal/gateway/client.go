// Package gateway is the HTTP client for the tax-authority submission API.
// It posts assembled documents and normalizes the gateway's inconsistent
// response shapes into a single Result.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/contaflow/facturel/internal/config"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/observability/logger"
)

// maxResponseBytes caps how much of a gateway response is buffered. The
// gateway occasionally returns full XML dumps on validation failures.
const maxResponseBytes = 4 << 20

// GatewayError is a transport-level failure: the gateway answered outside the
// 2xx range before any business-level verdict could be parsed.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, truncate(e.Body, 256))
}

// Client submits documents to the gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	testSetID  string
	log        *zap.Logger
}

// NewClient builds a gateway client from configuration.
func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Gateway.Timeout},
		baseURL:    cfg.Gateway.BaseURL,
		token:      cfg.Gateway.Token,
		testSetID:  cfg.Gateway.TestSetID,
		log:        log.Named("gateway.client"),
	}
}

// Submit posts a document of the given kind ("invoice" or "credit-note") and
// returns the normalized gateway verdict. A non-2xx answer is a *GatewayError;
// a 2xx answer always yields a Result, however malformed the body.
func (c *Client) Submit(ctx context.Context, kind string, doc *einvoicedomain.Document) (*Result, error) {
	ctx, span := otel.Tracer("facturel/gateway").Start(ctx, "gateway.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("document.kind", kind),
			attribute.Int64("document.number", doc.Number),
		))
	defer span.End()

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	url := fmt.Sprintf("%s/api/ubl2.1/%s/%s", c.baseURL, kind, c.testSetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := logger.WithContext(ctx, c.log)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, fmt.Errorf("submit %s %d: %w", kind, doc.Number, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	log.Info("gateway_submit",
		zap.String("kind", kind),
		zap.Int64("number", doc.Number),
		zap.Int("status", resp.StatusCode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "gateway error")
		return nil, &GatewayError{Status: resp.StatusCode, Body: string(body)}
	}

	return ParseResponse(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
