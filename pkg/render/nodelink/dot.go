package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sceneforge/pkg/scene"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Detailed adds tags and the position to node labels.
	// When false, only the object name is shown.
	Detailed bool

	// Selected ids are drawn highlighted.
	Selected []string
}

// ToDOT converts a scene hierarchy to Graphviz DOT format. Every object
// becomes a node keyed by its id, with an edge from each parent to each
// child. Root objects hang off a node for the scene itself.
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightgrey];\n", s.ID(), s.Name)
	s.Walk(func(g *scene.GameObject) bool {
		attrs := fmtAttrs(g, fmtLabel(g, opts.Detailed), slices.Contains(opts.Selected, g.ID()))
		fmt.Fprintf(&buf, "  %q [%s];\n", g.ID(), strings.Join(attrs, ", "))
		return true
	})

	buf.WriteString("\n")
	s.Walk(func(g *scene.GameObject) bool {
		from := s.ID()
		if p := g.Parent(); p != nil {
			from = p.ID()
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, g.ID())
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *scene.GameObject, detailed bool) string {
	if !detailed {
		return g.Name
	}
	parts := []string{g.Name, "pos: " + g.Transform.Position.String()}
	if tags := g.Tags(); len(tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(tags, ", "))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(g *scene.GameObject, label string, selected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if selected {
		attrs = append(attrs, "fillcolor=\"#ffd24d\"", "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
