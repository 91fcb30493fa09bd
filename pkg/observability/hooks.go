// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph builds, headless layout runs and
// API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the core packages
// stay free of logging and metrics backends.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnBuildStart(ctx, root)
//	// ... discover, extract, build ...
//	observability.Build().OnBuildComplete(ctx, root, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildStats summarizes a finished graph build.
type BuildStats struct {
	Documents   int
	Nodes       int
	Edges       int
	Diagnostics int
}

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from graph construction.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, root string)
	// OnDocument is called once per document after extraction. err is
	// non-nil for unreadable documents.
	OnDocument(ctx context.Context, path string, mentions int, err error)
	OnBuildComplete(ctx context.Context, root string, stats BuildStats, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from headless layout runs.
type LayoutHooks interface {
	OnSettleStart(ctx context.Context, nodes int)
	OnSettleComplete(ctx context.Context, nodes, steps int, duration time.Duration, err error)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, path string, status int, duration time.Duration)
	// OnRebuild records a rebuild triggered by a file change.
	OnRebuild(ctx context.Context, root string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string)           {}
func (NoopBuildHooks) OnDocument(context.Context, string, int, error) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, BuildStats, time.Duration, error) {
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnSettleStart(context.Context, int)                               {}
func (NoopLayoutHooks) OnSettleComplete(context.Context, int, int, time.Duration, error) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnRebuild(context.Context, string, time.Duration, error)       {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	buildHooks  BuildHooks  = NoopBuildHooks{}
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	layoutHooks = NoopLayoutHooks{}
	serverHooks = NoopServerHooks{}
}
