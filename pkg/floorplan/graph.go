package floorplan

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.InsertNode] when a supplied
	// identifier cannot be stored.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.InsertNode] when a node with
	// the same ID already exists. [Graph.AddNode] upserts instead.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.ConnectNodes] when the
	// first endpoint does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.ConnectNodes] when the
	// second endpoint does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Graph.ConnectNodes] when the pair is
	// already connected in either orientation.
	ErrDuplicateEdge = errors.New("edge already exists")
)

// Graph owns the nodes and edges of one floor-plan annotation.
//
// Nodes are kept in insertion order; every read that iterates nodes (and
// therefore every hit-test tie-break) follows that order. Edges are kept in
// the order they were added.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge

	counters map[Kind]int
	fallback int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		counters: make(map[Kind]int),
	}
}

// AddNode stores a node at image position (x, y) and returns its id.
//
// When id is empty an identifier is generated from the type attribute (see
// [Graph.NextID]); a missing type generates room identifiers. When the type
// is "room" and attrs carries no floor, [DefaultFloor] is injected. An
// untyped node gets a room identifier but no floor.
//
// A supplied id that already exists is upserted: position and attributes are
// replaced while the node keeps its place in the iteration order and its
// edges. Use [Graph.InsertNode] to reject duplicates instead.
//
// attrs is copied; the caller keeps ownership of the bag it passed.
func (g *Graph) AddNode(x, y float64, id string, attrs *Attributes) string {
	attrs = attrs.Clone()
	typ, _ := attrs.String(AttrType)
	typ = strings.ToLower(typ)

	if id == "" {
		genType := typ
		if genType == "" {
			genType = KindRoom.String()
		}
		id = g.GenerateID(ParseKind(genType), nil)
	}

	if typ == KindRoom.String() && !attrs.Has(AttrFloor) {
		attrs.SetString(AttrFloor, DefaultFloor)
	}

	if n, ok := g.nodes[id]; ok {
		n.X, n.Y, n.Attrs = x, y, attrs
		return id
	}
	g.nodes[id] = &Node{ID: id, X: x, Y: y, Attrs: attrs}
	g.order = append(g.order, id)
	return id
}

// InsertNode is AddNode without upsert: it returns ErrDuplicateNodeID when
// id is already taken. An empty id is generated and never collides.
func (g *Graph) InsertNode(x, y float64, id string, attrs *Attributes) (string, error) {
	if id != "" {
		if strings.TrimSpace(id) == "" {
			return "", ErrInvalidNodeID
		}
		if _, exists := g.nodes[id]; exists {
			return "", ErrDuplicateNodeID
		}
	}
	return g.AddNode(x, y, id, attrs), nil
}

// RemoveNode deletes the node and every edge incident to it. It returns
// false if the node does not exist.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.Touches(id) })
	return true
}

// UpdateNodePosition moves a node to image position (x, y). It returns
// false if the node does not exist.
func (g *Graph) UpdateNodePosition(id string, x, y float64) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// AddEdge connects a and b and reports whether the edge was added. It fails
// when an endpoint is missing or the pair is already connected in either
// orientation.
func (g *Graph) AddEdge(a, b string, attrs *Attributes) bool {
	return g.ConnectNodes(a, b, attrs) == nil
}

// ConnectNodes is the error-returning form of AddEdge.
func (g *Graph) ConnectNodes(a, b string, attrs *Attributes) error {
	if _, ok := g.nodes[a]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[b]; !ok {
		return ErrUnknownTargetNode
	}
	if g.HasEdge(a, b) {
		return ErrDuplicateEdge
	}
	g.edges = append(g.edges, Edge{Source: a, Target: b, Attrs: attrs.Clone()})
	return nil
}

// RemoveEdge deletes the edge matching e exactly, or else its reverse. It
// returns false if neither orientation is present.
func (g *Graph) RemoveEdge(e Edge) bool {
	i := g.edgeIndex(e.Source, e.Target)
	if i < 0 {
		return false
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	return true
}

// edgeIndex prefers an exact orientation match over a reversed one.
func (g *Graph) edgeIndex(a, b string) int {
	rev := -1
	for i, e := range g.edges {
		if e.Source == a && e.Target == b {
			return i
		}
		if rev < 0 && e.Source == b && e.Target == a {
			rev = i
		}
	}
	return rev
}

// HasEdge reports whether a and b are connected in either orientation.
func (g *Graph) HasEdge(a, b string) bool { return g.edgeIndex(a, b) >= 0 }

// Clear removes all nodes and edges and resets identifier counters.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
	g.counters = make(map[Kind]int)
	g.fallback = 0
}

// Node returns the node with the given id. The pointer aliases the stored
// node.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order. The slice is fresh but the
// nodes are the stored ones; treat them as read-only and mutate through the
// Graph methods.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the ids connected to id, in edge order.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, e := range g.edges {
		switch id {
		case e.Source:
			out = append(out, e.Target)
		case e.Target:
			out = append(out, e.Source)
		}
	}
	return out
}

// EdgeClass classifies an edge by its endpoints for styling. Outside wins
// over corridor, corridor over transition; everything else is a room edge.
func (g *Graph) EdgeClass(e Edge) Kind {
	a, aok := g.nodes[e.Source]
	b, bok := g.nodes[e.Target]
	has := func(pred func(*Node) bool) bool {
		return (aok && pred(a)) || (bok && pred(b))
	}
	switch {
	case has(func(n *Node) bool { return n.Kind() == KindOutside }):
		return KindOutside
	case has(func(n *Node) bool { return n.Kind() == KindCorridor }):
		return KindCorridor
	case has((*Node).IsTransition):
		return KindTransition
	default:
		return KindRoom
	}
}
