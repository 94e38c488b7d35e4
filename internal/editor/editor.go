// Package editor assembles the editing core over a map surface: the
// handle store, the selection store, the tool registry, and the default
// transform tool, wired to the surface's input stream.
package editor

import (
	"github.com/rs/zerolog"

	"geoedit/internal/events"
	"geoedit/internal/handles"
	"geoedit/internal/selection"
	"geoedit/internal/surface"
	"geoedit/internal/tools"
)

// Options configures an Editor. Zero values select the defaults of the
// underlying stores.
type Options struct {
	Handles   handles.Options
	Selection selection.Options
	Transform tools.TransformOptions
	Logger    zerolog.Logger
}

// Editor owns the wired editing core. Everything runs on the caller's
// event loop; the editor never starts goroutines.
type Editor struct {
	surf surface.Surface
	log  zerolog.Logger

	handles   *handles.Store
	selection *selection.Store
	registry  *tools.Registry

	routeDisposer events.Disposer
}

// New builds the core, registers the transform tool, and activates it.
// The surface's input stream is consumed from this point on; call Close
// to release it.
func New(surf surface.Surface, opts Options) *Editor {
	log := opts.Logger.With().Str("component", "editor").Logger()
	opts.Handles.Logger = opts.Logger
	opts.Selection.Logger = opts.Logger
	opts.Transform.Logger = opts.Logger

	e := &Editor{
		surf:      surf,
		log:       log,
		handles:   handles.NewStore(surf, opts.Handles),
		selection: selection.NewStore(surf, opts.Selection),
		registry:  tools.NewRegistry(surf, opts.Logger),
	}
	e.registry.Register(tools.NewTransformTool(surf, e.handles, e.selection, opts.Transform))

	e.handles.Bind()
	e.registry.Bind()
	e.routeDisposer = e.handles.OnAny(e.registry.RouteHandle)
	e.registry.Activate(tools.TransformToolID)
	return e
}

// Handles exposes the handle store.
func (e *Editor) Handles() *handles.Store { return e.handles }

// Selection exposes the selection store.
func (e *Editor) Selection() *selection.Store { return e.selection }

// Tools exposes the tool registry.
func (e *Editor) Tools() *tools.Registry { return e.registry }

// Close deactivates the active tool and releases every input
// subscription, in reverse wiring order.
func (e *Editor) Close() {
	e.registry.Deactivate()
	if e.routeDisposer != nil {
		e.routeDisposer()
		e.routeDisposer = nil
	}
	e.registry.Unbind()
	e.handles.Unbind()
	e.log.Debug().Msg("editor closed")
}
