// Package nodelink renders scene hierarchies as node-link diagrams.
//
// # Overview
//
// Each object becomes a rounded box; edges run from parents to children and
// root objects hang off a folder node for the scene. Selected objects are
// highlighted.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
