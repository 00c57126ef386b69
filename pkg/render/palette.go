package render

import (
	"fmt"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
)

// Color is an opaque sRGB colour.
type Color struct {
	R, G, B uint8
}

// RGB is shorthand for Color{r, g, b}.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Palette assigns colours to node kinds and edge classes.
type Palette struct {
	Nodes   map[floorplan.Kind]Color
	Glow    map[floorplan.Kind]Color // selection halo per node kind
	Edges   map[floorplan.Kind]Color // keyed by floorplan.Graph.EdgeClass
	Unknown Color                    // nodes with no recognized type

	Selected Color // selected edge
	Outline  Color // node outline and label text
}

// DefaultPalette returns the standard annotation colours.
func DefaultPalette() Palette {
	return Palette{
		Nodes: map[floorplan.Kind]Color{
			floorplan.KindRoom:       RGB(255, 128, 0),
			floorplan.KindDoor:       RGB(0, 204, 102),
			floorplan.KindCorridor:   RGB(255, 102, 255),
			floorplan.KindOutside:    RGB(204, 51, 51),
			floorplan.KindTransition: RGB(0, 0, 255),
		},
		Glow: map[floorplan.Kind]Color{
			floorplan.KindRoom:       RGB(255, 165, 0),
			floorplan.KindDoor:       RGB(0, 255, 127),
			floorplan.KindCorridor:   RGB(255, 20, 147),
			floorplan.KindOutside:    RGB(255, 69, 0),
			floorplan.KindTransition: RGB(135, 206, 250),
			floorplan.KindUnknown:    RGB(169, 169, 169),
		},
		Edges: map[floorplan.Kind]Color{
			floorplan.KindRoom:       RGB(255, 165, 0),
			floorplan.KindCorridor:   RGB(51, 153, 255),
			floorplan.KindOutside:    RGB(255, 0, 0),
			floorplan.KindTransition: RGB(0, 0, 180),
		},
		Unknown:  RGB(128, 128, 128),
		Selected: RGB(255, 100, 100),
		Outline:  RGB(0, 0, 0),
	}
}

// NodeKind classifies n for colouring. Unlike [floorplan.Node.Kind] it
// treats the legacy "tranistion" spelling as a transition.
func NodeKind(n *floorplan.Node) floorplan.Kind {
	if n.IsTransition() {
		return floorplan.KindTransition
	}
	return n.Kind()
}

// Node returns the fill colour for n.
func (p Palette) Node(n *floorplan.Node) Color {
	if c, ok := p.Nodes[NodeKind(n)]; ok {
		return c
	}
	return p.Unknown
}

// GlowFor returns the selection halo colour for n.
func (p Palette) GlowFor(n *floorplan.Node) Color {
	if c, ok := p.Glow[NodeKind(n)]; ok {
		return c
	}
	return p.Unknown
}

// Edge returns the stroke colour for an edge class, falling back to the room
// colour.
func (p Palette) Edge(class floorplan.Kind) Color {
	if c, ok := p.Edges[class]; ok {
		return c
	}
	return p.Edges[floorplan.KindRoom]
}
