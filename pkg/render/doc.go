// Package render mirrors domain scenes into a renderable node graph.
//
// # Overview
//
// The editor keeps two trees: the authoritative domain tree in
// [scene.Scene] and a render tree of [Node] values that carry matrices,
// bounds and placeholder geometry. The [Adapter] owns the render tree and
// keeps it in step with the domain:
//
//   - [Adapter.SyncFromDomain] rebuilds the whole render tree from a scene
//   - [Adapter.UpdateObjectTransform] patches one node in place (drag path)
//   - [Adapter.RenderObject] looks a node up by domain id
//   - [Adapter.RemoveObject] detaches a node and forgets its subtree
//
// Render nodes never point back into the domain; the only link is the
// domain id stored on each node. Rotations arrive in degrees and are
// converted to radians here, at the boundary.
//
// # Picking
//
// A [Camera] turns normalized device coordinates into world rays with
// [Camera.Ray]. [Adapter.Pick] intersects the ray with every node's world
// bounding box, keeps the nearest hit and walks up to the top-level node,
// whose domain id is the pick result.
//
//	cam := render.NewCamera(16.0 / 9.0)
//	id, ok := adapter.Pick(cam.Ray(0.1, -0.3))
//
// # Subpackages
//
//   - [raster]: software renderer producing PNG frames of the render tree
//   - [nodelink]: Graphviz export of the domain hierarchy
//
// [scene.Scene]: github.com/matzehuels/sceneforge/pkg/scene
// [raster]: github.com/matzehuels/sceneforge/pkg/render/raster
// [nodelink]: github.com/matzehuels/sceneforge/pkg/render/nodelink
package render
