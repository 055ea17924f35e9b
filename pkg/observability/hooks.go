// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries emit events through the registered
// hooks, and nothing is recorded unless the application installs its own
// implementations at startup. The gradient engine packages never call
// hooks; only the export pipeline, the session registry and the HTTP
// server do.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExportHooks(&myExportHooks{})
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnExportStart(ctx, formats)
//	// ... render ...
//	observability.Export().OnExportComplete(ctx, formats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the export pipeline.
type ExportHooks interface {
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	// OnArtifact records one rendered artifact.
	OnArtifact(ctx context.Context, format string, size int, duration time.Duration)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the editor session registry.
type SessionHooks interface {
	OnSessionCreate(ctx context.Context, id string)
	OnSessionDelete(ctx context.Context, id string)

	// OnSessionExpire is called by the sweeper; there is no request context.
	OnSessionExpire(id string, idle time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a served request. Route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, []string)                          {}
func (NoopExportHooks) OnExportComplete(context.Context, []string, time.Duration, error) {}
func (NoopExportHooks) OnArtifact(context.Context, string, int, time.Duration)           {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string) {}
func (NoopSessionHooks) OnSessionDelete(context.Context, string) {}
func (NoopSessionHooks) OnSessionExpire(string, time.Duration)   {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	exportHooks  ExportHooks  = NoopExportHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any exports.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
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

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
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
	exportHooks = NoopExportHooks{}
	sessionHooks = NoopSessionHooks{}
	httpHooks = NoopHTTPHooks{}
}
