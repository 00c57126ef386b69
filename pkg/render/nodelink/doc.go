// Package nodelink renders floor-plan graphs as Graphviz node-link diagrams.
//
// # Overview
//
// Where the overlay renderer draws the graph on top of the floor-plan image,
// this package produces a standalone diagram: nodes are coloured circles
// labelled with their id, edges are undirected lines. Every node is pinned to
// its image position, so the diagram keeps the shape of the floor plan.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] output selects the neato engine (layout=neato) and pins each
// node with pos="x,-y!" in points, one point per image pixel. The y axis is
// flipped because image rows grow downwards while Graphviz grows upwards.
// The DOT can also be processed with the Graphviz command-line tools:
//
//	neato -n2 -Tpng plan.dot > plan.png
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
