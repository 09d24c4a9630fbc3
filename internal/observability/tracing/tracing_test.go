package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestNewProviderDisabledNeverSamples(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	provider, err := NewProvider(nil, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, span := provider.Tracer("test").Start(context.Background(), "noop")
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsSampled())
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	_, err := NewProvider(nil, Config{Enabled: true, ExporterProtocol: "carrier-pigeon"}, zap.NewNop())
	require.Error(t, err)
}
