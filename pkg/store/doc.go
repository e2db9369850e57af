// Package store holds the editor's application state.
//
// An [App] owns one instance of every store:
//
//   - [ProjectStore]: the open project, its path and the modified flag
//   - [SceneStore]: the scene being edited and every structural mutation on it
//   - [SelectionStore]: the ordered list of selected object ids
//   - [ViewportStore]: gizmo mode, space, snapping and the render adapter
//   - [AssetStore]: files imported into the project's assets directory
//
// Store methods are the only way to change state. Each store publishes a
// change event to its subscribers exactly once per actual change, so
// consumers such as the viewport controller react to changes instead of
// polling.
//
// Stores are not safe for concurrent use. Callers running on several
// goroutines (the HTTP server, the frame ticker) serialize their work
// through a [Loop].
package store
