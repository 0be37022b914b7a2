// Package httputil provides HTTP utilities for outgoing API calls.
//
// # Overview
//
// This package provides the infrastructure used by the remote auto-fix
// client:
//
//   - [Client]: JSON POST requests with default headers and status mapping
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. The client marks
// these by wrapping them in [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A Retry-After header (in seconds) on a retryable response stretches the
// next wait, up to [MaxRetryAfter].
//
// Every other failure, such as a 400 or 401, is returned at once as a
// [*StatusError] carrying the status code and the start of the body.
//
//	var out response
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.PostJSON(ctx, url, nil, req, &out)
//	})
//
// # Observability
//
// Every request reports to the HTTP hooks of pkg/observability.
package httputil
