package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/jsamuelsen/oracle/internal/adapters/clients"
	"github.com/jsamuelsen/oracle/internal/adapters/clients/acl"
	"github.com/jsamuelsen/oracle/internal/platform/logging"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// GatewayServiceName identifies the Pushgateway in logs and health checks.
const GatewayServiceName = "pushgateway"

// Pusher sends a recorder's metrics to a Pushgateway.
type Pusher struct {
	client   *clients.Client
	recorder *Recorder
	url      string
	job      string
	instance string
}

// NewPusher creates a pusher. client must have been created with url as its BaseURL.
func NewPusher(client *clients.Client, recorder *Recorder, url, job, instance string) *Pusher {
	return &Pusher{
		client:   client,
		recorder: recorder,
		url:      url,
		job:      job,
		instance: instance,
	}
}

// Push replaces this job's metric group on the gateway.
func (p *Pusher) Push(ctx context.Context) error {
	pusher := push.New(p.url, p.job).
		Gatherer(p.recorder.Gatherer()).
		Client(p.client.HTTPClient())

	if p.instance != "" {
		pusher = pusher.Grouping("instance", p.instance)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", p.url, err)
	}

	return nil
}

// PushAndLog pushes and logs a failure instead of returning it.
func (p *Pusher) PushAndLog(ctx context.Context) {
	if err := p.Push(ctx); err != nil {
		logging.FromContext(ctx).Warn("metrics push failed", slog.Any("error", err))
		return
	}

	logging.FromContext(ctx).Debug("metrics pushed", slog.String("job", p.job))
}

// Gateway probes a Pushgateway's health endpoint.
type Gateway struct {
	acl.BaseAdapter
}

var _ ports.HealthChecker = (*Gateway)(nil)

// NewGateway creates a health checker for the gateway behind client.
func NewGateway(client *clients.Client) *Gateway {
	return &Gateway{BaseAdapter: acl.NewBaseAdapter(client, GatewayServiceName)}
}

// Name implements ports.HealthChecker.
func (g *Gateway) Name() string {
	return GatewayServiceName
}

// Check calls the gateway's /-/healthy endpoint.
func (g *Gateway) Check(ctx context.Context) error {
	return g.Probe(ctx, "/-/healthy", "health check")
}
