package editor

import (
	"fmt"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/view"
)

type pressHandler func(e *Editor, p view.Point)

// pressTable maps each mode and button to its action. Missing entries are
// ignored presses.
var pressTable = map[Mode]map[Button]pressHandler{
	ModeSelect: {
		ButtonLeft:   (*Editor).selectAt,
		ButtonMiddle: (*Editor).beginPan,
	},
	ModePan: {
		ButtonLeft:   (*Editor).beginPan,
		ButtonMiddle: (*Editor).beginPan,
	},
	ModeAddNode: {
		ButtonLeft:   (*Editor).addNodeAt,
		ButtonMiddle: (*Editor).beginPan,
	},
	ModeAddEdge: {
		ButtonLeft:   (*Editor).connectAt,
		ButtonMiddle: (*Editor).beginPan,
		ButtonRight:  (*Editor).exitAddEdge,
	},
	ModeDeleteNode: {
		ButtonLeft:   (*Editor).deleteNodeAt,
		ButtonMiddle: (*Editor).beginPan,
	},
	ModeDeleteEdge: {
		ButtonLeft:   (*Editor).deleteEdgeAt,
		ButtonMiddle: (*Editor).beginPan,
	},
}

// Press handles a pointer press at view point p.
func (e *Editor) Press(b Button, p view.Point) {
	if h, ok := pressTable[e.mode][b]; ok {
		h(e, p)
	}
}

// Move handles pointer motion: it advances a pan or drags the grabbed node,
// keeping the offset between pointer and node centre from the press.
func (e *Editor) Move(p view.Point) {
	switch {
	case e.panning:
		e.view.PanBy(p.Sub(e.panStart))
		e.panStart = p
	case e.dragging != "":
		img := e.Transform().ToImage(p.Sub(e.dragOffset))
		if e.graph.UpdateNodePosition(e.dragging, img.X, img.Y) {
			e.dirty = true
		}
	}
}

// Release ends a drag, and ends a pan started with the same button.
func (e *Editor) Release(b Button) {
	if b == ButtonMiddle || (b == ButtonLeft && e.mode == ModePan) {
		e.panning = false
	}
	if e.dragging != "" {
		e.mutated("move_node", e.dragging, true)
	}
	e.dragging = ""
}

// Wheel zooms in for a positive delta and out for a negative one.
func (e *Editor) Wheel(delta float64) { e.view.Wheel(delta) }

func (e *Editor) beginPan(p view.Point) {
	e.panning = true
	e.panStart = p
}

func (e *Editor) selectAt(p view.Point) {
	e.clearSelection()
	if id, ok := e.NodeAt(p); ok {
		n, _ := e.graph.Node(id)
		e.selectedNode = id
		e.dragging = id
		e.dragOffset = p.Sub(e.Transform().ToView(view.Pt(n.X, n.Y)))
		return
	}
	if edge, ok := e.EdgeAt(p); ok {
		e.selectedEdge = &edge
	}
}

func (e *Editor) addNodeAt(p view.Point) {
	img := e.Transform().ToImage(p)
	attrs := floorplan.NewAttributes().With(floorplan.AttrType, e.addType)
	if e.defaultFloor != "" && floorplan.ParseKind(e.addType) == floorplan.KindRoom {
		attrs.SetString(floorplan.AttrFloor, e.defaultFloor)
	}
	id := e.graph.AddNode(img.X, img.Y, "", attrs)

	e.clearSelection()
	e.selectedNode = id
	e.dirty = true
	e.mutated("add_node", id, true)
	e.status(fmt.Sprintf("Added node: %s (type: %s)", id, e.addType))
}

func (e *Editor) connectAt(p view.Point) {
	id, ok := e.NodeAt(p)
	if !ok {
		return
	}
	if e.edgeStart == "" {
		e.edgeStart = id
		e.selectedNode = id
		e.status(fmt.Sprintf("Edge start: %s. Click second node (or right-click to exit)", id))
		return
	}

	if e.edgeStart != id {
		from := e.edgeStart
		added := e.graph.AddEdge(from, id, nil)
		e.mutated("add_edge", from+"-"+id, added)
		if added {
			e.dirty = true
			e.status(fmt.Sprintf("Edge created: %s → %s. Click next node or right-click to exit", from, id))
		} else {
			e.status(fmt.Sprintf("Could not create edge %s → %s", from, id))
		}
	}
	e.edgeStart = id
	e.selectedNode = id
}

func (e *Editor) exitAddEdge(view.Point) {
	e.status("Exiting Add Edge mode - switched to Select Mode")
	e.SetMode(ModeSelect)
}

func (e *Editor) deleteNodeAt(p view.Point) {
	if id, ok := e.NodeAt(p); ok {
		e.DeleteNode(id)
	}
}

// DeleteNode removes a node and its edges, dropping any selection or pending
// edge start that refers to it. It reports whether the node existed.
func (e *Editor) DeleteNode(id string) bool {
	removed := e.graph.RemoveNode(id)
	e.mutated("remove_node", id, removed)
	if !removed {
		return false
	}
	if e.selectedNode == id {
		e.selectedNode = ""
	}
	if e.selectedEdge != nil && e.selectedEdge.Touches(id) {
		e.selectedEdge = nil
	}
	if e.edgeStart == id {
		e.edgeStart = ""
	}
	if e.dragging == id {
		e.dragging = ""
	}
	e.dirty = true
	e.status(fmt.Sprintf("Deleted node: %s", id))
	return true
}

func (e *Editor) deleteEdgeAt(p view.Point) {
	edge, ok := e.EdgeAt(p)
	if !ok {
		return
	}
	removed := e.graph.RemoveEdge(edge)
	e.mutated("remove_edge", edge.Source+"-"+edge.Target, removed)
	if !removed {
		return
	}
	if e.selectedEdge != nil && e.selectedEdge.Same(edge) {
		e.selectedEdge = nil
	}
	e.dirty = true
	e.status(fmt.Sprintf("Deleted edge: %s - %s", edge.Source, edge.Target))
}
