// Package overlay renders a floor-plan graph as an SVG overlay in image
// space.
//
// The output has the natural size of the floor-plan image, so it can be laid
// over the image or composited by any SVG consumer. Node radii and edge
// widths are in image pixels; labels sit above every node except corridors.
//
//	svg := overlay.RenderSVG(g, view.Size{W: 1920, H: 1080},
//		overlay.WithBackground("plan.png"),
//		overlay.WithSelectedNode("room_3"),
//	)
package overlay

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/render"
	"github.com/matzehuels/floorgraph/pkg/spatial"
	"github.com/matzehuels/floorgraph/pkg/view"
)

const (
	defaultEdgeWidth = 2.0
	outlineWidth     = 2.0
	labelOffset      = 25.0
	labelFontSize    = 8.0
	glowFactor       = 3.0

	// margin pads the computed frame when no image size is known.
	margin = 20.0
)

// SVGOption configures overlay rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette      render.Palette
	radii        spatial.Radii
	edgeWidth    float64
	background   string
	labels       bool
	selectedNode string
	selectedEdge *floorplan.Edge
}

func WithPalette(p render.Palette) SVGOption  { return func(r *svgRenderer) { r.palette = p } }
func WithRadii(radii spatial.Radii) SVGOption { return func(r *svgRenderer) { r.radii = radii } }
func WithEdgeWidth(w float64) SVGOption       { return func(r *svgRenderer) { r.edgeWidth = w } }
func WithoutLabels() SVGOption                { return func(r *svgRenderer) { r.labels = false } }

// WithBackground references the floor-plan image by href. The image is
// stretched to the frame; it is linked, not embedded.
func WithBackground(href string) SVGOption {
	return func(r *svgRenderer) { r.background = href }
}

// WithSelectedNode draws a halo around the node with the given id.
func WithSelectedNode(id string) SVGOption {
	return func(r *svgRenderer) { r.selectedNode = id }
}

// WithSelectedEdge draws the edge connecting e's endpoints (in either
// orientation) highlighted.
func WithSelectedEdge(e floorplan.Edge) SVGOption {
	return func(r *svgRenderer) { r.selectedEdge = &e }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		palette:   render.DefaultPalette(),
		radii:     spatial.DefaultRadii(),
		edgeWidth: defaultEdgeWidth,
		labels:    true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws g over a frame of the given image size. When size is
// empty the frame is fitted around the nodes instead.
func RenderSVG(g *floorplan.Graph, size view.Size, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	engine := spatial.New(spatial.WithRadii(r.radii))

	minX, minY, w, h := 0.0, 0.0, size.W, size.H
	if size.Empty() {
		minX, minY, w, h = frame(g, engine)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(minX), num(minY), num(w), num(h), w, h)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none"/>`+"\n",
			html.EscapeString(r.background), num(minX), num(minY), num(w), num(h))
	}

	buf.WriteString(`  <g class="edges" stroke-linecap="round">` + "\n")
	for _, e := range g.Edges() {
		r.renderEdge(&buf, g, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range g.Nodes() {
		r.renderNode(&buf, n, engine.Radius(n))
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		fmt.Fprintf(&buf, `  <g class="labels" font-family="Arial, sans-serif" font-size="%s" text-anchor="middle" fill="%s">`+"\n",
			num(labelFontSize), r.palette.Outline.Hex())
		for _, n := range g.Nodes() {
			if n.Kind() == floorplan.KindCorridor {
				continue
			}
			fmt.Fprintf(&buf, `    <text x="%s" y="%s" dominant-baseline="middle">%s</text>`+"\n",
				num(n.X), num(n.Y-labelOffset), html.EscapeString(n.ID))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, g *floorplan.Graph, e floorplan.Edge) {
	a, aok := g.Node(e.Source)
	b, bok := g.Node(e.Target)
	if !aok || !bok {
		return
	}
	class := g.EdgeClass(e)
	color, width := r.palette.Edge(class), r.edgeWidth
	if r.selectedEdge != nil && r.selectedEdge.Same(e) {
		color, width = r.palette.Selected, r.edgeWidth*glowFactor
	}
	fmt.Fprintf(buf, `    <line class="edge %s" data-source="%s" data-target="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		class, html.EscapeString(e.Source), html.EscapeString(e.Target),
		num(a.X), num(a.Y), num(b.X), num(b.Y), color.Hex(), num(width))
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *floorplan.Node, radius float64) {
	if n.ID == r.selectedNode {
		fmt.Fprintf(buf, `    <circle class="glow" cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="0.4"/>`+"\n",
			num(n.X), num(n.Y), num(radius*glowFactor), r.palette.GlowFor(n).Hex())
	}
	fmt.Fprintf(buf, `    <circle class="node %s" data-id="%s" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		render.NodeKind(n), html.EscapeString(n.ID), num(n.X), num(n.Y), num(radius),
		r.palette.Node(n).Hex(), r.palette.Outline.Hex(), num(outlineWidth))
}

// frame returns a viewBox enclosing every node circle and label, padded by
// margin. An empty graph gets a small frame at the origin.
func frame(g *floorplan.Graph, engine *spatial.Engine) (minX, minY, w, h float64) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0, 0, 2 * margin, 2 * margin
	}
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		rad := engine.Radius(n)
		x0, x1 = min(x0, n.X-rad), max(x1, n.X+rad)
		y0, y1 = min(y0, n.Y-max(rad, labelOffset+labelFontSize)), max(y1, n.Y+rad)
	}
	return x0 - margin, y0 - margin, x1 - x0 + 2*margin, y1 - y0 + 2*margin
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
