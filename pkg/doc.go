// Package pkg provides the core libraries of the Sceneforge scene editor.
//
// # Overview
//
// Sceneforge edits projects made of scenes. A scene holds a forest of game
// objects, each with a name, tags and a transform, and a viewport lets the
// user pick objects and drag them with a transform gizmo. The pkg directory
// is organized into four layers:
//
//  1. [scene] and [service] - Domain entities and the stateless operations on them
//  2. [store] - Reactive editor state (project, scene, selection, viewport, assets)
//  3. [persist] and [storage] - Where projects live (directories, key/value stores,
//     Redis, MongoDB, SQLite)
//  4. [render], [viewport] and [server] - The render mirror, interaction and the HTTP API
//
// # Architecture
//
// Every edit flows one way:
//
//	input (CLI, TUI, HTTP, viewport drag)
//	         ↓
//	    [store] (validates, notifies subscribers)
//	         ↓
//	    [service] (mutates the [scene] entities)
//	         ↓
//	    [render] Adapter (mirrors the change into render nodes)
//
// The render side never owns domain state: a gizmo drag writes its result
// back through the scene store, which updates the domain object first.
//
// # Quick Start
//
//	app := store.NewApp(store.Options{})
//	app.Project.CreateNewProject("Demo")
//
//	cube, _ := app.Scene.CreateGameObject("Cube", "")
//	pos := scene.Vec3(0, 1, 0)
//	app.Scene.UpdateObjectTransform(cube.ID(), &pos, nil, nil)
//
//	ctrl := viewport.NewController(app, viewport.Options{Width: 800, Height: 600})
//	defer ctrl.Close()
//	if id, ok := ctrl.Click(400, 300); ok {
//	    fmt.Println("picked", id)
//	}
//
// # Main Packages
//
// [errors] - Coded errors shared by every layer, plus input validation.
//
// [observability] - Hooks for mutations, persistence and picking, with no-op
// defaults and OpenTelemetry implementations.
//
// [render/nodelink] - The hierarchy as a Graphviz diagram.
//
// [render/raster] - Software rendering of viewport frames to PNG.
//
// [workspace] - Remembers the open project between CLI invocations.
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/scene
// [service]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/service
// [store]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/store
// [persist]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/persist
// [storage]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/storage
// [render]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/render
// [viewport]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/viewport
// [server]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/render/nodelink
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/render/raster
// [workspace]: https://pkg.go.dev/github.com/matzehuels/sceneforge/pkg/workspace
package pkg
