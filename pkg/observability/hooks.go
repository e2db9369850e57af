// Package observability provides hooks for tracing and metrics.
//
// Libraries call the registered hooks; main decides what receives them.
// Nothing below the CLI depends on a tracing backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Hook interfaces per event category (editor, persistence, render)
//   - No-op default implementations
//   - A global registry filled once at startup
//
// [TracingHooks] implements every interface on top of OpenTelemetry.
//
// # Usage
//
//	func main() {
//	    h := observability.NewTracingHooks(otel.Tracer("sceneforge"))
//	    observability.SetPersistHooks(h)
//	    observability.SetEditorHooks(h)
//	}
//
// Libraries report finished operations:
//
//	start := time.Now()
//	p, err := repo.Load(ctx, path)
//	observability.Persist().OnLoad(ctx, "dir", path, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives scene mutations performed through the stores.
type EditorHooks interface {
	// OnMutation records one store mutation. op is a short verb such as
	// "create", "delete" or "reparent"; err is nil on success.
	OnMutation(ctx context.Context, op, objectID string, err error)
}

// =============================================================================
// Persistence Hooks
// =============================================================================

// PersistHooks receives project persistence events.
type PersistHooks interface {
	// OnLoad records a finished load. A canceled dialog arrives as an error
	// with the CANCELED code.
	OnLoad(ctx context.Context, backend, path string, duration time.Duration, err error)

	// OnSave records a finished save or save-as.
	OnSave(ctx context.Context, backend, path string, size int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives render adapter events.
type RenderHooks interface {
	// OnSync records a full rebuild of the render scene.
	OnSync(ctx context.Context, objectCount int, duration time.Duration)

	// OnPick records a pointer pick and whether it hit an object.
	OnPick(ctx context.Context, hit bool, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnMutation(context.Context, string, string, error) {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopPersistHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnSync(context.Context, int, time.Duration)  {}
func (NoopRenderHooks) OnPick(context.Context, bool, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks  EditorHooks  = NoopEditorHooks{}
	persistHooks PersistHooks = NoopPersistHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	hooksMu      sync.RWMutex
)

// SetEditorHooks registers editor hooks. Nil is ignored.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetPersistHooks registers persistence hooks. Nil is ignored.
func SetPersistHooks(h PersistHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistHooks = h
	}
}

// SetRenderHooks registers render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Persist returns the registered persistence hooks.
func Persist() PersistHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	persistHooks = NoopPersistHooks{}
	renderHooks = NoopRenderHooks{}
}
