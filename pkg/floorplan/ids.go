package floorplan

import (
	"fmt"
	"regexp"
	"strconv"
)

// fallbackPrefix names nodes whose type is not recognized.
const fallbackPrefix = "new_node_"

var (
	typedIDRe    = regexp.MustCompile(`^(room|door|corridor|outside|transition)_(\d+)$`)
	doorIDRe     = regexp.MustCompile(`^(?:r2c|c2c)_door_(\d+)$`)
	corridorIDRe = regexp.MustCompile(`^corridor_connect_(\d+)$`)
	fallbackIDRe = regexp.MustCompile(`^new_node_(\d+)$`)
)

// formatID renders the identifier pattern for kind with sequence n.
func formatID(k Kind, n int) string {
	switch k {
	case KindDoor:
		return fmt.Sprintf("r2c_door_%d", n)
	case KindCorridor:
		return fmt.Sprintf("corridor_connect_%d", n)
	case KindUnknown:
		return fmt.Sprintf("%s%d", fallbackPrefix, n)
	default:
		return fmt.Sprintf("%s_%d", k, n)
	}
}

// GenerateID returns the next free identifier for kind and advances its
// counter past it. Identifiers present in the graph are skipped, as are
// those for which reserved returns true (reserved may be nil). The node is
// not created.
func (g *Graph) GenerateID(k Kind, reserved func(id string) bool) string {
	n := g.counter(k)
	id := formatID(k, n)
	for g.HasNode(id) || (reserved != nil && reserved(id)) {
		n++
		id = formatID(k, n)
	}
	g.setCounter(k, n+1)
	return id
}

// NextID previews the identifier the next generated node of kind would get,
// without consuming it.
func (g *Graph) NextID(k Kind) string {
	n := g.counter(k)
	id := formatID(k, n)
	for g.HasNode(id) {
		n++
		id = formatID(k, n)
	}
	return id
}

func (g *Graph) counter(k Kind) int {
	if k == KindUnknown {
		return g.fallback
	}
	return g.counters[k]
}

func (g *Graph) setCounter(k Kind, n int) {
	if k == KindUnknown {
		g.fallback = n
		return
	}
	g.counters[k] = n
}

// RecountIdentifiers rebuilds the per-kind counters from the identifiers
// currently in the graph: each counter becomes one past the largest suffix
// found for its patterns, or 0 when none match.
//
// Call it after bulk import so that generated identifiers continue above
// the imported ones.
func (g *Graph) RecountIdentifiers() {
	g.counters = make(map[Kind]int)
	g.fallback = 0

	bump := func(k Kind, digits string) {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return
		}
		if n+1 > g.counter(k) {
			g.setCounter(k, n+1)
		}
	}

	for _, id := range g.order {
		if m := typedIDRe.FindStringSubmatch(id); m != nil {
			bump(ParseKind(m[1]), m[2])
		} else if m := doorIDRe.FindStringSubmatch(id); m != nil {
			bump(KindDoor, m[1])
		} else if m := corridorIDRe.FindStringSubmatch(id); m != nil {
			bump(KindCorridor, m[1])
		} else if m := fallbackIDRe.FindStringSubmatch(id); m != nil {
			bump(KindUnknown, m[1])
		}
	}
}

// Stats summarizes a graph for display.
type Stats struct {
	NodeCount int
	EdgeCount int
	ByKind    map[Kind]int    // node count per kind, KindUnknown included
	NextIDs   map[Kind]string // preview of the next generated id per kind
}

// Stats returns counts and the next-identifier preview.
func (g *Graph) Stats() Stats {
	s := Stats{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		ByKind:    make(map[Kind]int),
		NextIDs:   make(map[Kind]string),
	}
	for _, n := range g.Nodes() {
		s.ByKind[n.Kind()]++
	}
	for _, k := range append(Kinds(), KindUnknown) {
		s.NextIDs[k] = g.NextID(k)
	}
	return s
}
