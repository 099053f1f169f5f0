package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/phillip/pet-adoption-go/config"
)

func TestSetupOTel_Disabled(t *testing.T) {
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupOTel_Enabled(t *testing.T) {
	prev := newExporter
	t.Cleanup(func() { newExporter = prev })

	var gotOpts int
	newExporter = func(_ context.Context, opts ...otlptracegrpc.Option) (sdktrace.SpanExporter, error) {
		gotOpts = len(opts)
		return tracetest.NewInMemoryExporter(), nil
	}

	cfg := config.OTELConfig{Enabled: true, Endpoint: "localhost:4317", Insecure: true, ServiceName: "svc", SampleRatio: 1}
	shutdown, err := SetupOTel(context.Background(), cfg, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, gotOpts)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupOTel_ExporterError(t *testing.T) {
	prev := newExporter
	t.Cleanup(func() { newExporter = prev })
	newExporter = func(context.Context, ...otlptracegrpc.Option) (sdktrace.SpanExporter, error) {
		return nil, errors.New("dial failed")
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true, ServiceName: "svc"}, "v")
	assert.ErrorContains(t, err, "dial failed")
}
