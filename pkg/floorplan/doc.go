// Package floorplan is the graph store behind the floor-plan annotation
// editor.
//
// A [Graph] holds nodes placed on a floor-plan image (rooms, doors,
// corridors, transitions, outside markers) and the undirected edges that
// connect them. Node positions are stored in image space, the pixel grid of
// the unscaled background image, which is the only coordinate system that
// survives a reload.
//
// # Identifiers
//
// Callers may supply node identifiers or let the graph generate them from
// the node type:
//
//	door       → r2c_door_<n>
//	corridor   → corridor_connect_<n>
//	room, outside, transition → <type>_<n>
//	anything else → new_node_<n>
//
// Counters are derived state. [Graph.RecountIdentifiers] rebuilds them from
// the identifiers present (also accepting c2c_door_<n>), and generation
// skips identifiers that are already taken, so generated ids never collide
// with imported ones.
//
// # Attributes
//
// Node and edge attributes live in an insertion-ordered [Attributes] bag of
// raw JSON values. Keys the store does not interpret are carried through
// load/save unchanged. Two keys are interpreted: "type" (see [Kind]) and
// "floor", which every node typed "room" carries ([DefaultFloor] if none is
// given).
//
// # Mutations
//
// All mutations report failure through their return value and never panic:
//
//	g := floorplan.New()
//	lobby := g.AddNode(120, 80, "", floorplan.NewAttributes().With("type", "room"))
//	door := g.AddNode(150, 80, "", floorplan.NewAttributes().With("type", "door"))
//	g.AddEdge(lobby, door, nil)   // true
//	g.AddEdge(door, lobby, nil)   // false: same undirected edge
//	g.RemoveNode(door)            // also removes the edge
//
// # Concurrency
//
// Graph is built for a single owner issuing one mutation at a time. Hosts
// that share a graph between goroutines must serialize access themselves.
package floorplan
