package floorplan

import (
	"errors"
	"testing"
)

func typed(t string) *Attributes { return NewAttributes().With(AttrType, t) }

func TestAddNodeGeneratesIDs(t *testing.T) {
	tests := []struct {
		name  string
		attrs *Attributes
		want  []string
	}{
		{"room", typed("room"), []string{"room_0", "room_1"}},
		{"door", typed("door"), []string{"r2c_door_0", "r2c_door_1"}},
		{"corridor", typed("corridor"), []string{"corridor_connect_0", "corridor_connect_1"}},
		{"outside", typed("outside"), []string{"outside_0", "outside_1"}},
		{"transition", typed("transition"), []string{"transition_0", "transition_1"}},
		{"case insensitive", typed("Door"), []string{"r2c_door_0", "r2c_door_1"}},
		{"missing type", nil, []string{"room_0", "room_1"}},
		{"unknown type", typed("stairwell"), []string{"new_node_0", "new_node_1"}},
		{"legacy transition spelling", typed("tranistion"), []string{"new_node_0", "new_node_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for i, want := range tt.want {
				if got := g.AddNode(float64(i), 0, "", tt.attrs); got != want {
					t.Errorf("AddNode #%d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestAddNodeGeneratedIDsAreUnique(t *testing.T) {
	g := New()
	types := []string{"room", "door", "corridor", "outside", "transition", "lift", ""}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		var attrs *Attributes
		if typ := types[i%len(types)]; typ != "" {
			attrs = typed(typ)
		}
		id := g.AddNode(float64(i), float64(i), "", attrs)
		if seen[id] {
			t.Fatalf("duplicate generated id %q", id)
		}
		seen[id] = true
	}
	if g.NodeCount() != 200 {
		t.Errorf("NodeCount = %d, want 200", g.NodeCount())
	}
}

func TestAddNodeSkipsTakenIDs(t *testing.T) {
	g := New()
	g.AddNode(0, 0, "room_0", typed("room"))
	g.AddNode(0, 0, "room_1", typed("room"))

	if got := g.AddNode(5, 5, "", typed("room")); got != "room_2" {
		t.Errorf("generated = %q, want room_2", got)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
}

func TestAddNodeRoomFloor(t *testing.T) {
	g := New()

	room := g.AddNode(0, 0, "", typed("room"))
	n, _ := g.Node(room)
	if f, ok := n.Floor(); !ok || f != DefaultFloor {
		t.Errorf("room floor = %q, %v; want %q", f, ok, DefaultFloor)
	}

	upper := g.AddNode(0, 0, "", typed("ROOM").With(AttrFloor, "Level_2"))
	n, _ = g.Node(upper)
	if f, _ := n.Floor(); f != "Level_2" {
		t.Errorf("explicit floor = %q, want Level_2", f)
	}

	door := g.AddNode(0, 0, "", typed("door"))
	n, _ = g.Node(door)
	if _, ok := n.Floor(); ok {
		t.Error("door should not get a default floor")
	}

	untyped := g.AddNode(0, 0, "", nil)
	if untyped != "room_2" {
		t.Errorf("untyped id = %q, want room_2", untyped)
	}
	n, _ = g.Node(untyped)
	if _, ok := n.Floor(); ok {
		t.Error("untyped node should not get a default floor")
	}
}

func TestAddNodeCopiesAttributes(t *testing.T) {
	g := New()
	attrs := typed("room")
	id := g.AddNode(0, 0, "", attrs)

	attrs.SetString("label", "changed later")
	n, _ := g.Node(id)
	if n.Attrs.Has("label") {
		t.Error("stored attributes alias the caller's bag")
	}
	if attrs.Has(AttrFloor) {
		t.Error("caller's bag was mutated with the default floor")
	}
}

func TestAddNodeUpsert(t *testing.T) {
	g := New()
	g.AddNode(1, 1, "a", typed("room"))
	g.AddNode(2, 2, "b", typed("door"))
	g.AddEdge("a", "b", nil)

	if got := g.AddNode(9, 9, "a", typed("outside")); got != "a" {
		t.Fatalf("upsert id = %q", got)
	}
	n, _ := g.Node("a")
	if n.X != 9 || n.Y != 9 || n.Kind() != KindOutside {
		t.Errorf("upserted node = %+v kind %v", n, n.Kind())
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", g.NodeCount(), g.EdgeCount())
	}
	if first := g.Nodes()[0].ID; first != "a" {
		t.Errorf("upsert moved node; first = %q", first)
	}
}

func TestInsertNode(t *testing.T) {
	g := New()
	if _, err := g.InsertNode(0, 0, "a", nil); err != nil {
		t.Fatalf("InsertNode: %v", err)
	}
	if _, err := g.InsertNode(1, 1, "a", nil); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate err = %v, want ErrDuplicateNodeID", err)
	}
	if _, err := g.InsertNode(1, 1, "   ", nil); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("blank err = %v, want ErrInvalidNodeID", err)
	}
	id, err := g.InsertNode(1, 1, "", typed("corridor"))
	if err != nil || id != "corridor_connect_0" {
		t.Errorf("generated = %q, %v", id, err)
	}
	n, _ := g.Node("a")
	if n.X != 0 {
		t.Error("rejected insert modified the existing node")
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(0, 0, id, nil)
	}
	g.AddEdge("a", "b", nil)
	g.AddEdge("c", "a", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("c", "d", nil)

	if !g.RemoveNode("a") {
		t.Fatal("RemoveNode(a) = false")
	}
	for _, e := range g.Edges() {
		if e.Touches("a") {
			t.Errorf("edge %v still references removed node", e)
		}
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if g.RemoveNode("a") {
		t.Error("second RemoveNode(a) = true")
	}
	if g.HasNode("a") || g.NodeCount() != 3 {
		t.Errorf("node a still present or count wrong (%d)", g.NodeCount())
	}
}

func TestRemovedIDsAreNotReused(t *testing.T) {
	g := New()
	first := g.AddNode(0, 0, "", typed("room"))
	g.RemoveNode(first)
	if next := g.AddNode(0, 0, "", typed("room")); next == first {
		t.Errorf("generated id %q reused after deletion", next)
	}
}

func TestUpdateNodePosition(t *testing.T) {
	g := New()
	g.AddNode(1, 2, "a", nil)

	if !g.UpdateNodePosition("a", 10, 20) {
		t.Fatal("UpdateNodePosition(a) = false")
	}
	n, _ := g.Node("a")
	if n.X != 10 || n.Y != 20 {
		t.Errorf("position = (%v,%v), want (10,20)", n.X, n.Y)
	}
	if g.UpdateNodePosition("missing", 1, 1) {
		t.Error("UpdateNodePosition(missing) = true")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(0, 0, "a", nil)
	g.AddNode(0, 0, "b", nil)

	tests := []struct {
		name    string
		a, b    string
		want    bool
		wantErr error
		count   int
	}{
		{"first", "a", "b", true, nil, 1},
		{"same orientation", "a", "b", false, ErrDuplicateEdge, 1},
		{"reverse orientation", "b", "a", false, ErrDuplicateEdge, 1},
		{"missing source", "x", "b", false, ErrUnknownSourceNode, 1},
		{"missing target", "a", "x", false, ErrUnknownTargetNode, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ConnectNodes(tt.a, tt.b, nil)
			if (err == nil) != tt.want {
				t.Errorf("ConnectNodes(%s,%s) = %v, want ok=%v", tt.a, tt.b, err, tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if g.EdgeCount() != tt.count {
				t.Errorf("EdgeCount = %d, want %d", g.EdgeCount(), tt.count)
			}
		})
	}

	if g.AddEdge("b", "a", nil) {
		t.Error("AddEdge(b,a) = true after (a,b) exists")
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(0, 0, id, nil)
	}
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)

	if !g.RemoveEdge(Edge{Source: "b", Target: "a"}) {
		t.Error("RemoveEdge(reverse) = false")
	}
	if g.HasEdge("a", "b") {
		t.Error("edge a-b still present")
	}
	if !g.RemoveEdge(Edge{Source: "b", Target: "c"}) {
		t.Error("RemoveEdge(exact) = false")
	}
	if g.RemoveEdge(Edge{Source: "b", Target: "c"}) {
		t.Error("RemoveEdge(missing) = true")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}

func TestClearResetsCounters(t *testing.T) {
	g := New()
	g.AddNode(0, 0, "", typed("room"))
	g.AddNode(0, 0, "", typed("room"))
	g.AddNode(0, 0, "", typed("lift"))
	g.AddEdge("room_0", "room_1", nil)

	g.Clear()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("counts after Clear = %d/%d", g.NodeCount(), g.EdgeCount())
	}
	if id := g.AddNode(0, 0, "", typed("room")); id != "room_0" {
		t.Errorf("first id after Clear = %q, want room_0", id)
	}
	if id := g.AddNode(0, 0, "", typed("lift")); id != "new_node_0" {
		t.Errorf("first fallback after Clear = %q, want new_node_0", id)
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		g.AddNode(0, 0, id, nil)
	}
	g.RemoveNode("m")
	g.AddNode(0, 0, "m", nil)

	want := []string{"z", "a", "b", "m"}
	for i, n := range g.Nodes() {
		if n.ID != want[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, n.ID, want[i])
		}
	}
}

func TestNeighbors(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(0, 0, id, nil)
	}
	g.AddEdge("a", "b", nil)
	g.AddEdge("c", "a", nil)

	got := g.Neighbors("a")
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Neighbors(a) = %v, want [b c]", got)
	}
	if got := g.Neighbors("missing"); len(got) != 0 {
		t.Errorf("Neighbors(missing) = %v", got)
	}
}

func TestEdgeClass(t *testing.T) {
	g := New()
	g.AddNode(0, 0, "room", typed("room"))
	g.AddNode(0, 0, "door", typed("door"))
	g.AddNode(0, 0, "corr", typed("corridor"))
	g.AddNode(0, 0, "out", typed("outside"))
	g.AddNode(0, 0, "trans", typed("Tranistion"))

	tests := []struct {
		a, b string
		want Kind
	}{
		{"room", "door", KindRoom},
		{"door", "corr", KindCorridor},
		{"corr", "out", KindOutside},
		{"trans", "room", KindTransition},
		{"trans", "corr", KindCorridor},
		{"out", "trans", KindOutside},
	}
	for _, tt := range tests {
		if got := g.EdgeClass(Edge{Source: tt.a, Target: tt.b}); got != tt.want {
			t.Errorf("EdgeClass(%s,%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
