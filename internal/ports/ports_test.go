package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker implements HealthChecker for testing.
type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string {
	return s.name
}

func (s *stubChecker) Check(_ context.Context) error {
	return s.err
}

// blockingChecker waits for its context to end.
type blockingChecker struct {
	name string
}

func (b *blockingChecker) Name() string {
	return b.name
}

func (b *blockingChecker) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNewHealthRegistry(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		expected time.Duration
	}{
		{name: "explicit timeout", timeout: 2 * time.Second, expected: 2 * time.Second},
		{name: "zero uses default", timeout: 0, expected: DefaultCheckTimeout},
		{name: "negative uses default", timeout: -time.Second, expected: DefaultCheckTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry(tt.timeout)

			require.NotNil(t, registry)
			assert.Empty(t, registry.checkers)
			assert.Equal(t, tt.expected, registry.timeout)
		})
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry(0)

	require.NoError(t, registry.Register(&stubChecker{name: "decks"}))

	err := registry.Register(&stubChecker{name: "decks"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "decks")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_Empty(t *testing.T) {
	result := NewHealthRegistry(0).CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_Mixed(t *testing.T) {
	registry := NewHealthRegistry(0)
	require.NoError(t, registry.Register(&stubChecker{name: "decks"}))
	require.NoError(t, registry.Register(&stubChecker{name: "gemini", err: errors.New("invalid api key")}))
	require.NoError(t, registry.Register(&stubChecker{name: "pushgateway"}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, []string{"decks", "gemini", "pushgateway"}, result.Names())
	assert.Equal(t, HealthStatusHealthy, result.Checks["decks"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["gemini"].Status)
	assert.Equal(t, "invalid api key", result.Checks["gemini"].Message)
	assert.Empty(t, result.Checks["pushgateway"].Message)
}

func TestCheckAll_TimeoutBoundsEachCheck(t *testing.T) {
	registry := NewHealthRegistry(20 * time.Millisecond)
	require.NoError(t, registry.Register(&blockingChecker{name: "slow"}))
	require.NoError(t, registry.Register(&stubChecker{name: "fast"}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["slow"].Status)
	assert.Contains(t, result.Checks["slow"].Message, "deadline exceeded")
	assert.Equal(t, HealthStatusHealthy, result.Checks["fast"].Status)
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry(time.Minute)
	require.NoError(t, registry.Register(&blockingChecker{name: "gemini"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["gemini"].Message, "context canceled")
}
