package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/contaflow/facturel/internal/config"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{
		Gateway: config.GatewayConfig{
			BaseURL:   server.URL,
			Token:     "test-token",
			TestSetID: "set-123",
			Timeout:   5 * time.Second,
		},
	}
	return NewClient(cfg, zap.NewNop())
}

func TestClientSubmitAccepted(t *testing.T) {
	ref := strings.Repeat("cd34", 24)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ubl2.1/invoice/set-123", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var doc einvoicedomain.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, int64(990), doc.Number)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"statusCode":"00","cufe":"` + ref + `"}`))
	})

	result, err := client.Submit(context.Background(), einvoicedomain.KindInvoice, &einvoicedomain.Document{Number: 990})

	require.NoError(t, err)
	assert.True(t, result.Accepted())
	assert.Equal(t, ref, result.Reference)
}

func TestClientSubmitCreditNotePath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ubl2.1/credit-note/set-123", r.URL.Path)
		_, _ = w.Write([]byte(`{"statusCode":"00","cufe":"` + strings.Repeat("ef56", 24) + `"}`))
	})

	result, err := client.Submit(context.Background(), einvoicedomain.KindCreditNote, &einvoicedomain.Document{Number: 12})

	require.NoError(t, err)
	assert.True(t, result.Accepted())
}

func TestClientSubmitRecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":"00","cufe":"` + strings.Repeat("ab12", 24) + `"}`))
	})

	_, err := client.Submit(context.Background(), einvoicedomain.KindInvoice, &einvoicedomain.Document{Number: 990})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "gateway.submit", span.Name)

	attrs := map[string]interface{}{}
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, einvoicedomain.KindInvoice, attrs["document.kind"])
	assert.Equal(t, int64(990), attrs["document.number"])
	assert.Equal(t, int64(http.StatusOK), attrs["http.status_code"])
}

func TestClientSubmitGatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("backend down"))
	})

	result, err := client.Submit(context.Background(), einvoicedomain.KindInvoice, &einvoicedomain.Document{Number: 1})

	require.Error(t, err)
	assert.Nil(t, result)

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, http.StatusInternalServerError, gatewayErr.Status)
	assert.Contains(t, gatewayErr.Body, "backend down")
}

func TestClientSubmitRejectionIsNotTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":"04","statusMessage":"rechazado"}`))
	})

	result, err := client.Submit(context.Background(), einvoicedomain.KindInvoice, &einvoicedomain.Document{Number: 2})

	require.NoError(t, err)
	assert.False(t, result.Accepted())
	assert.Equal(t, "04", result.StatusCode)
}
