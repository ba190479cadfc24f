// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about plot rendering and matrix store access.
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
//	    observability.SetPlotHooks(&myPlotHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Plot().OnTrackRenderStart(ctx, plotID, trackName)
//	// ... render the track ...
//	observability.Plot().OnTrackRenderComplete(ctx, plotID, trackName, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Plot Hooks
// =============================================================================

// PlotHooks receives events from the browser's plot pipeline.
type PlotHooks interface {
	// Plot lifecycle events
	OnPlotStart(ctx context.Context, plotID, region string, trackCount int)
	OnPlotComplete(ctx context.Context, plotID, region string, duration time.Duration, err error)

	// Per-track render events
	OnTrackRenderStart(ctx context.Context, plotID, trackName string)
	OnTrackRenderComplete(ctx context.Context, plotID, trackName string, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from matrix store access.
type StoreHooks interface {
	// OnFetchStart records the start of an interaction fetch.
	OnFetchStart(ctx context.Context, storeType, region string)

	// OnFetchComplete records a completed fetch with the matrix size returned.
	OnFetchComplete(ctx context.Context, storeType, region string, n int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlotHooks is a no-op implementation of PlotHooks.
type NoopPlotHooks struct{}

func (NoopPlotHooks) OnPlotStart(context.Context, string, string, int)                      {}
func (NoopPlotHooks) OnPlotComplete(context.Context, string, string, time.Duration, error)  {}
func (NoopPlotHooks) OnTrackRenderStart(context.Context, string, string)                    {}
func (NoopPlotHooks) OnTrackRenderComplete(context.Context, string, string, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnFetchStart(context.Context, string, string)                           {}
func (NoopStoreHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plotHooks  PlotHooks  = NoopPlotHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetPlotHooks registers custom plot hooks.
// This should be called once at application startup before any plots are made.
func SetPlotHooks(h PlotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plotHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store access.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Plot returns the registered plot hooks.
func Plot() PlotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plotHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plotHooks = NoopPlotHooks{}
	storeHooks = NoopStoreHooks{}
}
