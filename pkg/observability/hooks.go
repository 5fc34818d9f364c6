// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about view transitions, exports,
// and point deductions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not
// by libraries) and keeps the core library free of observability
// framework dependencies.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStudioHooks(&myStudioHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Studio().OnViewLoadStart(ctx, view)
//	// ... load the view ...
//	observability.Studio().OnViewLoadComplete(ctx, view, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// StudioHooks receives events from the design/export pipeline.
type StudioHooks interface {
	// View transition events
	OnViewLoadStart(ctx context.Context, view string)
	OnViewLoadComplete(ctx context.Context, view string, duration time.Duration, err error)

	// Export events
	OnExportStart(ctx context.Context, kind, view string)
	OnExportComplete(ctx context.Context, kind, view string, bytes int, duration time.Duration, err error)

	// Point deduction events
	OnDeduct(ctx context.Context, amount int, success bool, err error)
}

// NoopStudioHooks is a no-op implementation of StudioHooks.
type NoopStudioHooks struct{}

func (NoopStudioHooks) OnViewLoadStart(context.Context, string)                          {}
func (NoopStudioHooks) OnViewLoadComplete(context.Context, string, time.Duration, error) {}
func (NoopStudioHooks) OnExportStart(context.Context, string, string)                    {}
func (NoopStudioHooks) OnExportComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopStudioHooks) OnDeduct(context.Context, int, bool, error) {}

var (
	studioHooks StudioHooks = NoopStudioHooks{}
	hooksMu     sync.RWMutex
)

// SetStudioHooks registers custom studio hooks.
// This should be called once at application startup.
func SetStudioHooks(h StudioHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		studioHooks = h
	}
}

// Studio returns the registered studio hooks.
func Studio() StudioHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return studioHooks
}

// Reset restores the no-op default hooks.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	studioHooks = NoopStudioHooks{}
}
