// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, pointer gestures, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetGestureHooks(&myGestureHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, panelCount)
//	// ... run the pass ...
//	observability.Layout().OnLayoutComplete(ctx, panelCount, rows, conflicts, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a pass over panelCount panels.
	OnLayoutStart(ctx context.Context, panelCount int)

	// OnLayoutComplete records a finished pass: how many rows the placed
	// panels occupy and how many panels were dropped on conflicts.
	OnLayoutComplete(ctx context.Context, panelCount, rows, conflicts int, duration time.Duration, err error)

	// OnConflict records a single dropped panel and the cell it lost.
	OnConflict(ctx context.Context, panelID, ownerID, gridX, gridY int)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from the pointer interaction controller.
type GestureHooks interface {
	// OnDragStart records a panel being picked up.
	OnDragStart(ctx context.Context, panelID int)

	// OnDragCommit records a drag release. moved is false when the panel
	// snapped back to the slot it started from.
	OnDragCommit(ctx context.Context, panelID, gridX, gridY int, moved bool)

	// OnResizeStart records an edge grab. edge is "left" or "right".
	OnResizeStart(ctx context.Context, panelID int, edge string)

	// OnResizeCommit records a resize release. changed is false when the
	// span ended up where it started.
	OnResizeCommit(ctx context.Context, panelID, gridX, widthUnits int, changed bool)

	// OnGestureCancel records a gesture abandoned without commit, for
	// example when the panel disappears mid drag.
	OnGestureCancel(ctx context.Context, panelID int)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API server.
type APIHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, int, int, time.Duration, error) {
}
func (NoopLayoutHooks) OnConflict(context.Context, int, int, int, int) {}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnDragStart(context.Context, int)                    {}
func (NoopGestureHooks) OnDragCommit(context.Context, int, int, int, bool)   {}
func (NoopGestureHooks) OnResizeStart(context.Context, int, string)          {}
func (NoopGestureHooks) OnResizeCommit(context.Context, int, int, int, bool) {}
func (NoopGestureHooks) OnGestureCancel(context.Context, int)                {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	gestureHooks GestureHooks = NoopGestureHooks{}
	apiHooks     APIHooks     = NoopAPIHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout passes.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any pointer input.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
// This should be called once at application startup before serving requests.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	gestureHooks = NoopGestureHooks{}
	apiHooks = NoopAPIHooks{}
}
