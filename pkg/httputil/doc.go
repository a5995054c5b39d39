// Package httputil provides retry infrastructure for remote repository
// clients.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError]:
//
//   - Network errors (connection refused, timeouts)
//   - 5xx server errors
//
// Other errors, including 404s, are returned immediately. The delay doubles
// after every failed attempt:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    return fetch(ctx, url)
//	})
//
// # Configuration
//
// [DefaultPolicy] makes 3 attempts starting at a 1 second delay. Callers
// that need a different budget build their own [Policy].
package httputil
