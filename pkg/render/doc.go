// Package render draws floor-plan graphs.
//
// # Overview
//
// Two renderers share the colour scheme defined here:
//
//   - [overlay] draws the graph on top of the floor-plan image, in image
//     space and at the image's natural size, as SVG.
//   - [nodelink] emits Graphviz DOT with every node pinned to its image
//     position and renders it to SVG in-process.
//
// # Colours
//
// Nodes are coloured by kind (see [Palette.Node]). Edges are coloured by
// the most significant kind among their endpoints: outside, then corridor,
// then transition; everything else draws as a room edge. The rule lives in
// [floorplan.Graph.EdgeClass] so hit-testing, the HTTP API and both
// renderers agree on it.
//
//	pal := render.DefaultPalette()
//	fill := pal.Node(n).Hex()                  // "#ff8000" for a room
//	stroke := pal.Edge(g.EdgeClass(e)).Hex()
//
// [overlay]: github.com/matzehuels/floorgraph/pkg/render/overlay
// [nodelink]: github.com/matzehuels/floorgraph/pkg/render/nodelink
// [floorplan.Graph.EdgeClass]: github.com/matzehuels/floorgraph/pkg/floorplan.Graph.EdgeClass
package render
