package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/render"
	"github.com/matzehuels/floorgraph/pkg/spatial"
)

// pointsPerInch converts node radii (pixels, taken as points) to the inch
// sizes Graphviz expects.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type and floor to labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Palette overrides the default colours when non-nil.
	Palette *render.Palette

	// Radii overrides the default node radii when non-nil.
	Radii *spatial.Radii
}

// ToDOT converts a graph to Graphviz DOT with every node pinned to its
// image position. The result can be rendered with [RenderSVG].
func ToDOT(g *floorplan.Graph, opts Options) string {
	pal := render.DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}
	radii := spatial.DefaultRadii()
	if opts.Radii != nil {
		radii = *opts.Radii
	}
	engine := spatial.New(spatial.WithRadii(radii))

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", penwidth=2, fontsize=8, fontname=\"Arial\"];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, engine.Radius(n), pal, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		color := pal.Edge(g.EdgeClass(e))
		fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", e.Source, e.Target, color.Hex())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *floorplan.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{n.ID}
	if t := n.Type(); t != "" {
		parts = append(parts, "type: "+t)
	}
	if f, ok := n.Floor(); ok {
		parts = append(parts, "floor: "+f)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *floorplan.Node, radius float64, pal render.Palette, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", coord(n.X), coord(-n.Y)),
		fmt.Sprintf("width=%s", coord(2*radius/pointsPerInch)),
		fmt.Sprintf("fillcolor=%q", pal.Node(n).Hex()),
		fmt.Sprintf("color=%q", pal.Outline.Hex()),
	}
	if n.Kind() != floorplan.KindCorridor {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", fmtLabel(n, detailed)))
	}
	return attrs
}

func coord(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
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

// normalizeViewBox replaces Graphviz's pt-sized root element with a pixel
// sized one so the diagram scales like the overlay export.
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
