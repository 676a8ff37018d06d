package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/lifelane/lifelane/internal/config"
	"github.com/lifelane/lifelane/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "lifelane-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})

	require.NoError(t, err)
	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestProvider_Shutdown_NilProviders(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{Env: "production", OTLPEndpoint: "collector:4317", OTelEnabled: true}

	tc := telemetry.FromConfig(cfg, "lifelane-api", "v1.2.0")
	assert.Equal(t, "lifelane-api", tc.ServiceName)
	assert.Equal(t, "v1.2.0", tc.ServiceVersion)
	assert.Equal(t, "production", tc.Environment)
	assert.Equal(t, "collector:4317", tc.OTLPEndpoint)
	assert.True(t, tc.Enabled)
	assert.Equal(t, 0.25, tc.SampleRatio)

	cfg.Env = "development"
	assert.Equal(t, 1.0, telemetry.FromConfig(cfg, "x", "dev").SampleRatio)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, sdktrace.AlwaysSample().Description()},
		{1, sdktrace.AlwaysSample().Description()},
		{0.5, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, telemetry.Sampler(tt.ratio).Description())
	}
}

func TestPropagator_Fields(t *testing.T) {
	fields := telemetry.Propagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
