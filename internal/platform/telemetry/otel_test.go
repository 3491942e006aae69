package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNew_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	provider, err := New(context.Background(), &Config{Enabled: false, Endpoint: "ignored:4317"})

	require.NoError(t, err)
	assert.False(t, provider.Enabled())
	assert.Equal(t, before, otel.GetTracerProvider())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestShutdown_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, (&Provider{}).Shutdown(ctx))
}
