// Package editor is the interactive session around a floor-plan graph.
//
// An [Editor] owns one graph, its view state and the current selection, and
// turns pointer events into graph mutations. The host (a GUI canvas, the
// terminal browser or a test) feeds it events in view coordinates and
// redraws from [Editor.Graph] and [Editor.Transform] afterwards; every event
// is handled synchronously.
//
// # Modes
//
// What a press does depends on the mode and the button:
//
//	mode         left                        middle  right
//	select       select node or edge, drag   pan     -
//	pan          pan                         pan     -
//	add_node     add node at pointer         pan     -
//	add_edge     connect from previous node  pan     back to select
//	delete_node  remove node under pointer   pan     -
//	delete_edge  remove edge under pointer   pan     -
//
// Adding edges is continuous: each clicked node becomes the start of the next
// edge until the mode changes.
//
// # Status
//
// Mutations report a short human-readable message through the optional
// [StatusFunc] and the debug log.
package editor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/observability"
	"github.com/matzehuels/floorgraph/pkg/render/overlay"
	"github.com/matzehuels/floorgraph/pkg/spatial"
	"github.com/matzehuels/floorgraph/pkg/view"
)

// StatusFunc receives a message after each mutating operation.
type StatusFunc func(msg string)

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithStatus registers a status callback.
func WithStatus(fn StatusFunc) Option { return func(e *Editor) { e.onStatus = fn } }

// WithEngine replaces the default hit-test engine.
func WithEngine(s *spatial.Engine) Option { return func(e *Editor) { e.engine = s } }

// WithLimits sets the zoom limits and wheel steps.
func WithLimits(l view.Limits) Option { return func(e *Editor) { e.limits = l } }

// WithDefaultFloor sets the floor given to new rooms. An empty floor keeps
// [floorplan.DefaultFloor].
func WithDefaultFloor(floor string) Option { return func(e *Editor) { e.defaultFloor = floor } }

// WithGraph starts the session on an existing graph.
func WithGraph(g *floorplan.Graph) Option { return func(e *Editor) { e.graph = g } }

// Editor is one editing session. It is not safe for concurrent use.
type Editor struct {
	graph  *floorplan.Graph
	view   *view.State
	engine *spatial.Engine
	canvas view.Size

	mode         Mode
	addType      string
	defaultFloor string
	limits       view.Limits

	selectedNode string
	selectedEdge *floorplan.Edge
	edgeStart    string

	dragging   string
	dragOffset view.Point
	panning    bool
	panStart   view.Point

	path       string
	dirty      bool
	session    string
	lastStatus string

	logger   *log.Logger
	onStatus StatusFunc
}

// New returns an editor in select mode on an empty graph, adding rooms.
func New(opts ...Option) *Editor {
	e := &Editor{
		graph:   floorplan.New(),
		engine:  spatial.New(),
		limits:  view.DefaultLimits(),
		addType: floorplan.KindRoom.String(),
		session: uuid.NewString(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.view = view.NewState(e.limits)
	e.logger = e.logger.With("session", e.session[:8])
	return e
}

// Session returns the session's unique id.
func (e *Editor) Session() string { return e.session }

// Graph returns the graph being edited. Mutate it through the editor so
// that selection and dirty tracking stay consistent.
func (e *Editor) Graph() *floorplan.Graph { return e.graph }

// View returns the zoom/pan state.
func (e *Editor) View() *view.State { return e.view }

// Engine returns the hit-test engine.
func (e *Editor) Engine() *spatial.Engine { return e.engine }

// SetCanvas records the size of the drawing surface.
func (e *Editor) SetCanvas(s view.Size) { e.canvas = s }

// Canvas returns the size of the drawing surface.
func (e *Editor) Canvas() view.Size { return e.canvas }

// SetImageSize records the natural size of the background image.
func (e *Editor) SetImageSize(s view.Size) { e.view.Image = s }

// Transform returns the current image/view mapping.
func (e *Editor) Transform() view.Transform { return e.view.Transform(e.canvas) }

// Mode returns the active mode.
func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches tools. The selection and any in-progress drag or pan are
// dropped; the pending edge start survives only when staying in add_edge.
func (e *Editor) SetMode(m Mode) {
	prev := e.mode
	e.mode = m
	if m != ModeAddEdge {
		e.edgeStart = ""
	}
	e.clearSelection()
	e.dragging = ""
	e.panning = false
	e.logger.Debug("mode changed", "from", prev, "to", m)
}

// AddNodeType returns the type given to nodes created in add_node mode.
func (e *Editor) AddNodeType() string { return e.addType }

// SetAddNodeType sets the type for new nodes.
func (e *Editor) SetAddNodeType(t string) { e.addType = t }

// SelectedNode returns the selected node id.
func (e *Editor) SelectedNode() (string, bool) { return e.selectedNode, e.selectedNode != "" }

// SelectedEdge returns the selected edge.
func (e *Editor) SelectedEdge() (floorplan.Edge, bool) {
	if e.selectedEdge == nil {
		return floorplan.Edge{}, false
	}
	return *e.selectedEdge, true
}

// EdgeStart returns the node the next edge will start from in add_edge mode.
func (e *Editor) EdgeStart() (string, bool) { return e.edgeStart, e.edgeStart != "" }

// Dragging returns the node being dragged.
func (e *Editor) Dragging() (string, bool) { return e.dragging, e.dragging != "" }

// Panning reports whether a pan gesture is in progress.
func (e *Editor) Panning() bool { return e.panning }

// Dirty reports whether the graph changed since the last load or save.
func (e *Editor) Dirty() bool { return e.dirty }

// Path returns the file last loaded or saved.
func (e *Editor) Path() string { return e.path }

// Status returns the most recent status message.
func (e *Editor) Status() string { return e.lastStatus }

// Stats summarizes the graph for display.
func (e *Editor) Stats() floorplan.Stats { return e.graph.Stats() }

// NodeAt resolves a view point to a node.
func (e *Editor) NodeAt(p view.Point) (string, bool) {
	start := time.Now()
	id, ok := e.engine.NodeAt(p, e.graph, e.Transform())
	observability.Edit().OnHitTest(context.Background(), "node", ok, time.Since(start))
	return id, ok
}

// EdgeAt resolves a view point to an edge.
func (e *Editor) EdgeAt(p view.Point) (floorplan.Edge, bool) {
	start := time.Now()
	edge, ok := e.engine.EdgeAt(p, e.graph, e.Transform())
	observability.Edit().OnHitTest(context.Background(), "edge", ok, time.Since(start))
	return edge, ok
}

// Clear empties the graph and resets the session state.
func (e *Editor) Clear() {
	e.graph.Clear()
	e.clearSelection()
	e.edgeStart, e.dragging, e.panning = "", "", false
	e.dirty = true
	e.mutated("clear", "", true)
	e.status("Cleared graph")
}

// Load replaces the graph with the document at path. On failure the current
// graph is kept. Entries that could not be loaded are logged as warnings.
func (e *Editor) Load(ctx context.Context, path string) (*fgio.Report, error) {
	g, rep, err := fgio.ImportJSON(ctx, path)
	if err != nil {
		e.status(fmt.Sprintf("Error loading %s", path))
		return nil, err
	}
	for _, issue := range rep.Issues() {
		e.logger.Warn("entry not loaded", "path", path, "entry", issue.String())
	}

	e.graph = g
	e.path = path
	e.dirty = false
	e.edgeStart, e.dragging, e.panning = "", "", false
	e.clearSelection()
	e.status(fmt.Sprintf("Loaded %d nodes and %d edges", g.NodeCount(), g.EdgeCount()))
	return rep, nil
}

// Save writes the graph to path, or to the last loaded or saved path when
// path is empty.
func (e *Editor) Save(ctx context.Context, path string) error {
	if path == "" {
		path = e.path
	}
	if path == "" {
		return fmt.Errorf("no file to save to")
	}
	if err := fgio.ExportJSON(ctx, e.graph, path); err != nil {
		e.status(fmt.Sprintf("Error saving %s", path))
		return err
	}
	e.path = path
	e.dirty = false
	e.status(fmt.Sprintf("Saved %d nodes and %d edges to %s", e.graph.NodeCount(), e.graph.EdgeCount(), path))
	return nil
}

// RenderOverlay draws the graph with the current selection highlighted, at
// the natural image size.
func (e *Editor) RenderOverlay(opts ...overlay.SVGOption) []byte {
	base := []overlay.SVGOption{overlay.WithRadii(e.radii())}
	if id, ok := e.SelectedNode(); ok {
		base = append(base, overlay.WithSelectedNode(id))
	}
	if edge, ok := e.SelectedEdge(); ok {
		base = append(base, overlay.WithSelectedEdge(edge))
	}
	return overlay.RenderSVG(e.graph, e.view.Image, append(base, opts...)...)
}

func (e *Editor) radii() spatial.Radii {
	// Radius is per node; probe each class through the engine.
	probe := func(typ string) float64 {
		n := &floorplan.Node{Attrs: floorplan.NewAttributes().With(floorplan.AttrType, typ)}
		return e.engine.Radius(n)
	}
	return spatial.Radii{
		Room:       probe(floorplan.KindRoom.String()),
		Corridor:   probe(floorplan.KindCorridor.String()),
		Transition: probe(floorplan.KindTransition.String()),
	}
}

func (e *Editor) clearSelection() {
	e.selectedNode = ""
	e.selectedEdge = nil
}

func (e *Editor) status(msg string) {
	e.lastStatus = msg
	e.logger.Debug(msg)
	if e.onStatus != nil {
		e.onStatus(msg)
	}
}

func (e *Editor) mutated(op, target string, ok bool) {
	observability.Edit().OnMutation(context.Background(), op, target, ok)
}
