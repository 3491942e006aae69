// Package clients provides the instrumented HTTP client shared by the
// interpretation providers and the metrics gateway.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// These are distinct from domain errors: they are translated to domain
// errors by the acl package.
var (
	// ErrTransport wraps any failure to obtain a response (DNS, connect, TLS,
	// timeout, cancellation). The underlying error stays reachable with errors.Is.
	ErrTransport = errors.New("transport failure")
)
