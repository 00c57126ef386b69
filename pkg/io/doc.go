// Package io reads and writes floor-plan graphs as JSON documents.
//
// # JSON Format
//
// The document has two optional top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "room_0", "type": "room", "position": [10, 20], "floor": "Ground_Floor"},
//	    {"id": "door_0", "type": "door", "x": 30, "y": 20}
//	  ],
//	  "edges": [
//	    {"source": "room_0", "target": "door_0"},
//	    ["room_0", "door_0"]
//	  ]
//	}
//
// Two historical schemas are accepted on read:
//
//   - Node position as a "position" pair or as separate "x"/"y" fields. The
//     pair wins when both are present; missing coordinates default to 0.
//   - Edges as {"source", "target"} objects or as [source, target] pairs.
//
// Every other node key becomes an attribute and is written back unchanged.
// Nodes without an "id" get a sequential new_node_<n> identifier that
// avoids every explicit id in the document.
//
// # Writing
//
// [WriteJSON] always emits the "position" form and object edges. Node keys
// are ordered id, type, position, floor, then the remaining attributes in
// the order they were first seen:
//
//	{
//	  "id": "room_0",
//	  "type": "room",
//	  "position": [10, 20],
//	  "floor": "Ground_Floor",
//	  "area": 12.5
//	}
//
// # Partial Documents
//
// A document that is not a JSON object, or whose "nodes"/"edges" are not
// arrays, fails as a whole with an [errors.ErrCodeInvalidFormat] error and
// no graph. Individual malformed entries are skipped and listed in the
// [Report] alongside edges the graph refused (unknown endpoints or
// duplicates). Reading always builds a fresh graph, so a failed load never
// touches the graph a caller already holds.
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/floorgraph/pkg/errors.ErrCodeInvalidFormat
package io
