package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/oracle/internal/adapters/clients"
	"github.com/jsamuelsen/oracle/internal/domain"
)

func TestRecorder_RecordReading(t *testing.T) {
	r := NewRecorder()

	r.RecordReading(domain.DeckRune, nil)
	r.RecordReading(domain.DeckRune, nil)
	r.RecordReading(domain.DeckTarot, domain.NewValidationError("count", "must be at least 1"))

	assert.InDelta(t, 2, testutil.ToFloat64(r.readings.WithLabelValues("rune", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.readings.WithLabelValues("tarot", OutcomeInvalid)), 0)
	assert.Positive(t, testutil.ToFloat64(r.lastSuccess))
}

func TestRecorder_RecordInterpret(t *testing.T) {
	r := NewRecorder()

	r.RecordInterpret(domain.DeckTarot, 1200*time.Millisecond, nil)
	r.RecordInterpret(domain.DeckTarot, 300*time.Millisecond, errors.New("boom"))

	count, err := testutil.GatherAndCount(r.Gatherer(), "oracle_interpret_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result label")
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: OutcomeSuccess},
		{name: "validation", err: domain.NewValidationError("count", "must be at least 1"), want: OutcomeInvalid},
		{name: "unavailable", err: domain.NewUnavailableError("gemini", "timed out"), want: OutcomeService},
		{name: "malformed", err: domain.NewMalformedResponseError(2, 3), want: OutcomeMalformed},
		{name: "other", err: errors.New("disk full"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeFor(tt.err))
		})
	}
}

func newGatewayClient(t *testing.T, url string) *clients.Client {
	t.Helper()

	client, err := clients.New(&clients.Config{BaseURL: url, ServiceName: GatewayServiceName})
	require.NoError(t, err)

	return client
}

func TestPusher_Push(t *testing.T) {
	type captured struct {
		method string
		path   string
		body   []byte
	}
	requests := make(chan captured, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- captured{method: r.Method, path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	recorder := NewRecorder()
	recorder.RecordReading(domain.DeckRune, nil)

	pusher := NewPusher(newGatewayClient(t, server.URL), recorder, server.URL, "oracle", "laptop")

	require.NoError(t, pusher.Push(context.Background()))

	req := <-requests
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/metrics/job/oracle/instance/laptop", req.path)
	assert.Contains(t, string(req.body), "oracle_readings_total")
}

func TestPusher_Push_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	pusher := NewPusher(newGatewayClient(t, server.URL), NewRecorder(), server.URL, "oracle", "")

	err := pusher.Push(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pushing metrics")

	assert.NotPanics(t, func() { pusher.PushAndLog(context.Background()) })
}

func TestGateway_Check(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/-/healthy", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	gateway := NewGateway(newGatewayClient(t, server.URL))
	assert.Equal(t, GatewayServiceName, gateway.Name())

	require.NoError(t, gateway.Check(context.Background()))

	healthy.Store(false)
	err := gateway.Check(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}
