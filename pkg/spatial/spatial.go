// Package spatial resolves pointer positions to graph entities.
//
// Queries run in view space: node centres and edge endpoints are mapped
// through a [view.Transform] and compared against the pointer in screen
// pixels, so hit areas keep the same on-screen size at every zoom level.
// Every query is a single pass over the graph in its iteration order, and
// the first entity within reach wins. Overlapping nodes therefore resolve to
// the one added first.
package spatial

import (
	"math"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/view"
)

// Default hit-test parameters, in view pixels.
const (
	DefaultRoomRadius       = 8
	DefaultCorridorRadius   = 4
	DefaultTransitionRadius = 9
	DefaultTolerance        = 5
	DefaultEdgeThreshold    = 10
)

// Radii holds the drawn node radius per node class. Every kind other than
// corridor and transition uses Room.
type Radii struct {
	Room       float64
	Corridor   float64
	Transition float64
}

// DefaultRadii returns the standard node radii.
func DefaultRadii() Radii {
	return Radii{
		Room:       DefaultRoomRadius,
		Corridor:   DefaultCorridorRadius,
		Transition: DefaultTransitionRadius,
	}
}

// Engine answers hit-test queries. It holds only parameters, so one Engine
// can serve any number of graphs.
type Engine struct {
	radii     Radii
	tolerance float64
	threshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRadii sets the per-kind node radii.
func WithRadii(r Radii) Option { return func(e *Engine) { e.radii = r } }

// WithTolerance sets the slack in view pixels added to every node radius.
func WithTolerance(px float64) Option { return func(e *Engine) { e.tolerance = px } }

// WithEdgeThreshold sets the maximum view-pixel distance for an edge hit.
func WithEdgeThreshold(px float64) Option { return func(e *Engine) { e.threshold = px } }

// New returns an Engine with the default radii, tolerance and edge threshold
// overridden by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		radii:     DefaultRadii(),
		tolerance: DefaultTolerance,
		threshold: DefaultEdgeThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Radius returns the drawn radius of n.
func (e *Engine) Radius(n *floorplan.Node) float64 {
	switch {
	case n.Kind() == floorplan.KindCorridor:
		return e.radii.Corridor
	case n.IsTransition():
		return e.radii.Transition
	default:
		return e.radii.Room
	}
}

// Tolerance returns the extra reach added to every node radius.
func (e *Engine) Tolerance() float64 { return e.tolerance }

// EdgeThreshold returns the default reach used by EdgeAt.
func (e *Engine) EdgeThreshold() float64 { return e.threshold }

// NodeAt returns the first node whose view-space centre lies within its
// radius plus the tolerance of p.
func (e *Engine) NodeAt(p view.Point, g *floorplan.Graph, t view.Transform) (string, bool) {
	for _, n := range g.Nodes() {
		c := t.ToView(view.Pt(n.X, n.Y))
		if p.Dist(c) <= e.Radius(n)+e.tolerance {
			return n.ID, true
		}
	}
	return "", false
}

// EdgeAt is EdgeWithin using the engine's edge threshold.
func (e *Engine) EdgeAt(p view.Point, g *floorplan.Graph, t view.Transform) (floorplan.Edge, bool) {
	return e.EdgeWithin(p, g, t, e.threshold)
}

// EdgeWithin returns the first edge whose view-space segment passes within
// threshold of p. Edges with a missing endpoint are ignored.
func (e *Engine) EdgeWithin(p view.Point, g *floorplan.Graph, t view.Transform, threshold float64) (floorplan.Edge, bool) {
	for _, edge := range g.Edges() {
		a, aok := g.Node(edge.Source)
		b, bok := g.Node(edge.Target)
		if !aok || !bok {
			continue
		}
		pa := t.ToView(view.Pt(a.X, a.Y))
		pb := t.ToView(view.Pt(b.X, b.Y))
		if SegmentDistance(p, pa, pb) <= threshold {
			return edge, true
		}
	}
	return floorplan.Edge{}, false
}

// SegmentDistance returns the distance from p to the segment ab. The
// projection of p is clamped to the segment; a zero-length segment is
// treated as the point a.
func SegmentDistance(p, a, b view.Point) float64 {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	ap := p.Sub(a)
	u := math.Max(0, math.Min(1, (ap.X*d.X+ap.Y*d.Y)/lenSq))
	return p.Dist(a.Add(d.Mul(u)))
}
