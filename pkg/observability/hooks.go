// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about resolution, acquisition, extraction, cache operations,
// and remote repository calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAcquireHooks(&myAcquireHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Acquire().OnTransition(ctx, coord, "CheckLocalMain", "Resolved")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// ResolveHooks receives events from dependency tree resolution.
type ResolveHooks interface {
	// OnResolveStart is called once per ResolveTree call that misses the cache.
	OnResolveStart(ctx context.Context, manifest string)
	// OnResolveComplete reports the size of the resolved set.
	OnResolveComplete(ctx context.Context, manifest string, count int, duration time.Duration, err error)
	// OnSubtreeFailed reports an abandoned subtree.
	OnSubtreeFailed(ctx context.Context, coordinate string, err error)
}

// AcquireHooks receives events from the artifact acquisition state machine.
type AcquireHooks interface {
	// OnTransition records a state change for one coordinate.
	OnTransition(ctx context.Context, coordinate, from, to string)
	// OnDownload records a completed archive download.
	OnDownload(ctx context.Context, coordinate, classifier string, size int, duration time.Duration)
}

// ExtractHooks receives events from API extraction.
type ExtractHooks interface {
	OnExtractComplete(ctx context.Context, coordinate string, classes int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit in the named store.
	OnCacheHit(ctx context.Context, store string)

	// OnCacheMiss records a cache miss in the named store.
	OnCacheMiss(ctx context.Context, store string)

	// OnCacheFlush records a durable snapshot write.
	OnCacheFlush(ctx context.Context, stores int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string) {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopResolveHooks) OnSubtreeFailed(context.Context, string, error) {}

// NoopAcquireHooks is a no-op implementation of AcquireHooks.
type NoopAcquireHooks struct{}

func (NoopAcquireHooks) OnTransition(context.Context, string, string, string)           {}
func (NoopAcquireHooks) OnDownload(context.Context, string, string, int, time.Duration) {}

// NoopExtractHooks is a no-op implementation of ExtractHooks.
type NoopExtractHooks struct{}

func (NoopExtractHooks) OnExtractComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                     {}
func (NoopCacheHooks) OnCacheFlush(context.Context, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	acquireHooks AcquireHooks = NoopAcquireHooks{}
	extractHooks ExtractHooks = NoopExtractHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolution hooks.
// This should be called once at application startup.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetAcquireHooks registers custom acquisition hooks.
func SetAcquireHooks(h AcquireHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		acquireHooks = h
	}
}

// SetExtractHooks registers custom extraction hooks.
func SetExtractHooks(h ExtractHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		extractHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Resolve returns the registered resolution hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Acquire returns the registered acquisition hooks.
func Acquire() AcquireHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return acquireHooks
}

// Extract returns the registered extraction hooks.
func Extract() ExtractHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return extractHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	acquireHooks = NoopAcquireHooks{}
	extractHooks = NoopExtractHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
