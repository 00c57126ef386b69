// Package observability provides hooks for metrics, tracing, and logging.
//
// The graph core never logs on its own. Instead it reports load/save,
// mutation, and HTTP events to hooks registered by the host application,
// which can forward them to whatever backend it uses (the CLI logs them
// through charmbracelet/log).
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
//	    observability.SetIOHooks(&myIOHooks{})
//	    observability.SetEditHooks(&myEditHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.IO().OnLoadStart(ctx, path)
//	// ... decode ...
//	observability.IO().OnLoadComplete(ctx, path, nodes, edges, skipped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// IO Hooks
// =============================================================================

// IOHooks receives events from document import and export.
type IOHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, nodes, edges, skipped int, duration time.Duration, err error)

	OnSaveStart(ctx context.Context, dest string)
	OnSaveComplete(ctx context.Context, dest string, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from interactive editing.
type EditHooks interface {
	// OnMutation records a graph mutation. op is a short verb such as
	// "add_node" or "remove_edge"; ok is false for rejected mutations.
	OnMutation(ctx context.Context, op, target string, ok bool)

	// OnHitTest records a spatial query and whether it resolved an entity.
	OnHitTest(ctx context.Context, kind string, hit bool, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIOHooks is a no-op implementation of IOHooks.
type NoopIOHooks struct{}

func (NoopIOHooks) OnLoadStart(context.Context, string) {}
func (NoopIOHooks) OnLoadComplete(context.Context, string, int, int, int, time.Duration, error) {}
func (NoopIOHooks) OnSaveStart(context.Context, string) {}
func (NoopIOHooks) OnSaveComplete(context.Context, string, int, int, time.Duration, error) {}

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnMutation(context.Context, string, string, bool) {}
func (NoopEditHooks) OnHitTest(context.Context, string, bool, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	ioHooks   IOHooks   = NoopIOHooks{}
	editHooks EditHooks = NoopEditHooks{}
	httpHooks HTTPHooks = NoopHTTPHooks{}
	hooksMu   sync.RWMutex
)

// SetIOHooks registers custom import/export hooks.
// This should be called once at application startup.
func SetIOHooks(h IOHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ioHooks = h
	}
}

// SetEditHooks registers custom editing hooks.
// This should be called once at application startup.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// IO returns the registered import/export hooks.
func IO() IOHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ioHooks
}

// Edit returns the registered editing hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
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
	ioHooks = NoopIOHooks{}
	editHooks = NoopEditHooks{}
	httpHooks = NoopHTTPHooks{}
}
