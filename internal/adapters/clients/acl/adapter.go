package acl

import (
	"context"
	"io"
	"net/http"

	"github.com/jsamuelsen/oracle/internal/adapters/clients"
)

// BaseAdapter provides common functionality for adapters that talk to a
// downstream service over plain HTTP rather than through an SDK.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body (caller must close).
// Failures come back as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// Probe performs a GET and discards the body. Used by health checks.
func (a *BaseAdapter) Probe(ctx context.Context, path, operation string) error {
	body, err := a.Get(ctx, path, operation)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	_, _ = io.Copy(io.Discard, body)

	return nil
}
