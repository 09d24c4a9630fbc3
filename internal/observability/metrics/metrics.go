package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	submissions         metric.Int64Counter
	reconcileAdjust     metric.Int64Counter
	gatewayRoundTripMS  metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New builds the application instruments from the registered meter provider.
func New(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("facturel")

	submissions, err := meter.Int64Counter("facturel.submissions.total",
		metric.WithDescription("Documents submitted to the tax-authority gateway"))
	if err != nil {
		return nil, err
	}
	reconcileAdjust, err := meter.Int64Counter("facturel.reconciliation.adjustments.total",
		metric.WithDescription("Header or line amounts adjusted during reconciliation"))
	if err != nil {
		return nil, err
	}
	gatewayRoundTripMS, err := meter.Float64Histogram("facturel.gateway.roundtrip.ms",
		metric.WithDescription("Gateway submission round-trip latency in milliseconds"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		submissions:        submissions,
		reconcileAdjust:    reconcileAdjust,
		gatewayRoundTripMS: gatewayRoundTripMS,
	}, nil
}

// RecordSubmission counts one gateway submission by document kind and outcome.
func (m *Metrics) RecordSubmission(ctx context.Context, kind, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

// RecordReconciliationAdjustment counts one reconciliation rewrite.
func (m *Metrics) RecordReconciliationAdjustment(ctx context.Context, target string) {
	if m == nil || m.reconcileAdjust == nil {
		return
	}
	m.reconcileAdjust.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", target),
	))
}

// RecordGatewayRoundTrip records one gateway round-trip duration.
func (m *Metrics) RecordGatewayRoundTrip(ctx context.Context, kind string, elapsed time.Duration) {
	if m == nil || m.gatewayRoundTripMS == nil {
		return
	}
	m.gatewayRoundTripMS.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
