// Package viewport turns pointer input into camera motion, selection and
// transform edits.
//
// # Overview
//
// A [Controller] owns the render side of an editor session: a
// [render.Adapter] installed into the app's viewport store, a
// [render.Camera] driven by [OrbitControls], a [Gizmo] attached to the
// selected object and a [raster.Renderer] for frames.
//
//	ctrl := viewport.NewController(app, viewport.Options{Width: 800, Height: 600})
//	defer ctrl.Close()
//
//	ctrl.Click(400, 300)          // pick and select
//	ctrl.PointerDown(420, 300, viewport.ButtonPrimary)
//	ctrl.PointerMove(460, 300)    // gizmo drag, written back to the scene
//	ctrl.PointerUp(460, 300)
//
// # Reactions
//
// The controller subscribes to the selection and viewport stores. The
// gizmo follows the first selected object, picks up mode, space and snap
// changes once per change, and is reattached after every full resync of
// the render tree.
//
// # Threading
//
// Like the stores, a controller is single-threaded. [Controller.Run]
// advances the camera on a ticker through a [store.Loop], which is also
// where every other caller must run controller methods.
package viewport
