// Package integrations provides HTTP clients for remote artifact repositories.
//
// # Overview
//
// The [Client] type provides shared HTTP functionality used by repository
// clients: explicit timeouts, retries with backoff for transient failures,
// default headers, and [observability.HTTPHooks] reporting.
//
// Repository-specific clients live in subpackages:
//
//   - [maven]: Maven 2 layout repositories (Maven Central, mirrors)
//
// # Errors
//
// [Client.GetBytes] maps 404 responses to [ErrNotFound] and everything else
// to [ErrNetwork]. Network errors and 5xx responses are retried.
//
// [maven]: github.com/matzehuels/jarlens/pkg/integrations/maven
// [observability.HTTPHooks]: github.com/matzehuels/jarlens/pkg/observability.HTTPHooks
package integrations
