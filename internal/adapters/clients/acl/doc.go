// Package acl is the anti-corruption layer between downstream services and
// the domain.
//
// SDK and HTTP failures never leave an adapter in their raw form. They are
// translated here:
//
//   - 401/403 → [domain.ErrUnavailable] "authentication rejected"
//   - 429 → [domain.ErrUnavailable] "rate limit exceeded"
//   - other 4xx, 5xx → [domain.ErrUnavailable] with the server's message
//   - transport errors, cancellation, timeouts → [domain.ErrUnavailable]
//     wrapping the cause
//
// Provider adapters extract the status and message from their SDK's error
// type and call [MapStatus]; plain HTTP adapters embed [BaseAdapter], which
// calls [MapHTTPError].
package acl
