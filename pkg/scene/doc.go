// Package scene provides the editable scene graph: game objects arranged in
// a tree, grouped into scenes, grouped into a project.
//
// # Overview
//
// A [Project] is the unit of save and load. It holds an ordered list of
// [Scene] values, one of which is active. A scene is a forest: an ordered
// list of root [GameObject] values, each owning an ordered list of children.
// Every object carries a stable id, a name, a [Transform] and a set of tags.
//
//	p := scene.NewProject("Demo")
//	s := scene.NewScene("Main Scene")
//	p.AddScene(s)
//
//	cube := scene.NewGameObject("Cube")
//	s.AddObject(cube)
//	if err := cube.AddChild(scene.NewGameObject("Light")); err != nil {
//	    // ErrSelfParent or ErrCycle
//	}
//
// # Tree Invariants
//
// An object's parent is nil if and only if it is a root of a scene. A child
// appears exactly once in its parent's children. [GameObject.AddChild]
// refuses to create a cycle, and moving an object under a new parent detaches
// it from the old one first, so the graph stays a tree. [Project.Validate]
// checks the whole structure, including id uniqueness across scenes.
//
// Removing a root goes through [Scene.RemoveObject]; removing a nested object
// goes through its parent's [GameObject.RemoveChild]. The service layer picks
// the correct path based on [GameObject.Parent].
//
// # Values
//
// [Vector3] and [Transform] are plain value types. Assigning one copies it, so
// a stored transform never aliases the caller's vectors. Rotation is kept in
// degrees as Euler angles; conversion to radians happens in the renderer.
//
// # Serialization
//
// Every entity marshals to the project file format with encoding/json. The
// *Data types mirror the file layout and are the only persisted form. Decoding
// rebuilds parent references and assigns fresh ids to objects, scenes and
// projects whose id is missing, which is how duplication produces new ids:
//
//	data := obj.Data()
//	data.StripIDs()
//	copy := scene.GameObjectFromData(data)
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. The editor mutates the
// graph from a single goroutine; see the store package.
package scene
