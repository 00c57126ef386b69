package floorplan

import "strings"

// Reserved attribute keys.
const (
	AttrType  = "type"
	AttrFloor = "floor"
)

// DefaultFloor is injected into room nodes created without a floor.
const DefaultFloor = "Ground_Floor"

// legacyTransition is a historical misspelling found in older documents.
// It renders like a transition but does not take part in id generation.
const legacyTransition = "tranistion"

// Kind classifies a node by its type attribute.
type Kind int

const (
	// KindUnknown covers absent or unrecognized types.
	KindUnknown Kind = iota
	KindRoom
	KindDoor
	KindCorridor
	KindOutside
	KindTransition
)

var kindNames = map[Kind]string{
	KindRoom:       "room",
	KindDoor:       "door",
	KindCorridor:   "corridor",
	KindOutside:    "outside",
	KindTransition: "transition",
}

// Kinds lists the recognized kinds in display order.
func Kinds() []Kind {
	return []Kind{KindRoom, KindDoor, KindCorridor, KindOutside, KindTransition}
}

// String returns the type name, or "unknown".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a type string to a Kind, ignoring case.
func ParseKind(s string) Kind {
	s = strings.ToLower(s)
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// Node is a positioned vertex of the annotation graph. X and Y are in image
// space. Attrs holds type, floor and every extra key from the source
// document.
type Node struct {
	ID   string
	X, Y float64

	Attrs *Attributes
}

// Type returns the raw type attribute, or "" when it is absent or not a
// string.
func (n *Node) Type() string {
	s, _ := n.Attrs.String(AttrType)
	return s
}

// Kind classifies the node by its type.
func (n *Node) Kind() Kind { return ParseKind(n.Type()) }

// IsTransition reports whether the node is a transition, accepting the
// legacy spelling.
func (n *Node) IsTransition() bool {
	t := strings.ToLower(n.Type())
	return t == "transition" || t == legacyTransition
}

// Floor returns the floor attribute if it is a string.
func (n *Node) Floor() (string, bool) { return n.Attrs.String(AttrFloor) }

// Edge is an undirected connection between two nodes. Source and Target
// keep the orientation in which the edge was added; (a,b) and (b,a) denote
// the same edge.
type Edge struct {
	Source string
	Target string

	Attrs *Attributes
}

// Touches reports whether id is one of the endpoints.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Reverse returns the edge with swapped endpoints.
func (e Edge) Reverse() Edge {
	return Edge{Source: e.Target, Target: e.Source, Attrs: e.Attrs}
}

// Same reports whether e and o connect the same pair of nodes in either
// orientation.
func (e Edge) Same(o Edge) bool {
	return (e.Source == o.Source && e.Target == o.Target) ||
		(e.Source == o.Target && e.Target == o.Source)
}
