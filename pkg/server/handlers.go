package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorgraph/pkg/buildinfo"
	errs "github.com/matzehuels/floorgraph/pkg/errors"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/observability"
	"github.com/matzehuels/floorgraph/pkg/view"
)

const maxBodyBytes = 1 << 20

type createNodeRequest struct {
	X          *float64              `json:"x" validate:"required"`
	Y          *float64              `json:"y" validate:"required"`
	ID         string                `json:"id,omitempty" validate:"omitempty,nodeid"`
	Attributes *floorplan.Attributes `json:"attributes,omitempty"`
}

type moveNodeRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type edgeRequest struct {
	Source     string                `json:"source" validate:"required"`
	Target     string                `json:"target" validate:"required"`
	Attributes *floorplan.Attributes `json:"attributes,omitempty"`
}

type sizeBody struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

type pointBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// hitRequest describes a canvas the way the editor sees it. Zoom 0 means 1.
type hitRequest struct {
	Canvas sizeBody  `json:"canvas"`
	Image  sizeBody  `json:"image"`
	Zoom   float64   `json:"zoom" validate:"gte=0"`
	Pan    pointBody `json:"pan"`
	Point  pointBody `json:"point"`
}

type edgeBody struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type hitResponse struct {
	Node       string    `json:"node,omitempty"`
	Edge       *edgeBody `json:"edge,omitempty"`
	ImagePoint pointBody `json:"image_point"`
}

type statsResponse struct {
	Nodes   int               `json:"nodes"`
	Edges   int               `json:"edges"`
	ByKind  map[string]int    `json:"by_kind"`
	NextIDs map[string]string `json:"next_ids"`
}

type saveResponse struct {
	Path  string `json:"path"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data, err := fgio.MarshalGraph(s.graph)
	s.mu.RUnlock()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	st := s.Stats()
	resp := statsResponse{
		Nodes:   st.NodeCount,
		Edges:   st.EdgeCount,
		ByKind:  make(map[string]int, len(st.ByKind)),
		NextIDs: make(map[string]string, len(st.NextIDs)),
	}
	for k, n := range st.ByKind {
		resp.ByKind[k.String()] = n
	}
	for k, id := range st.NextIDs {
		resp.NextIDs[k.String()] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	attrs := req.Attributes
	if s.defaultFloor != "" && !attrs.Has(floorplan.AttrFloor) {
		if typ, _ := attrs.String(floorplan.AttrType); strings.EqualFold(typ, floorplan.KindRoom.String()) {
			attrs = attrs.Clone()
			attrs.SetString(floorplan.AttrFloor, s.defaultFloor)
		}
	}

	s.mu.Lock()
	id, err := s.graph.InsertNode(*req.X, *req.Y, req.ID, attrs)
	s.mu.Unlock()

	if id == "" {
		id = req.ID
	}
	observability.Edit().OnMutation(r.Context(), "add_node", id, err == nil)
	if err != nil {
		s.respondError(w, r, graphError(err, "add node "+req.ID))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id := nodeParam(r)
	var req moveNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.mu.Lock()
	ok := s.graph.UpdateNodePosition(id, *req.X, *req.Y)
	s.mu.Unlock()

	observability.Edit().OnMutation(r.Context(), "move_node", id, ok)
	if !ok {
		s.respondError(w, r, errs.New(errs.ErrCodeNotFound, "node %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := nodeParam(r)

	s.mu.Lock()
	ok := s.graph.RemoveNode(id)
	s.mu.Unlock()

	observability.Edit().OnMutation(r.Context(), "remove_node", id, ok)
	if !ok {
		s.respondError(w, r, errs.New(errs.ErrCodeNotFound, "node %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.mu.Lock()
	err := s.graph.ConnectNodes(req.Source, req.Target, req.Attributes)
	s.mu.Unlock()

	target := req.Source + "-" + req.Target
	observability.Edit().OnMutation(r.Context(), "add_edge", target, err == nil)
	if err != nil {
		s.respondError(w, r, graphError(err, "add edge "+target))
		return
	}
	writeJSON(w, http.StatusCreated, edgeBody{Source: req.Source, Target: req.Target})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.mu.Lock()
	ok := s.graph.RemoveEdge(floorplan.Edge{Source: req.Source, Target: req.Target})
	s.mu.Unlock()

	target := req.Source + "-" + req.Target
	observability.Edit().OnMutation(r.Context(), "remove_edge", target, ok)
	if !ok {
		s.respondError(w, r, errs.New(errs.ErrCodeNotFound, "edge %s not found", target))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	zoom := req.Zoom
	if zoom == 0 {
		zoom = 1
	}
	zoom = s.limits.Clamp(zoom)
	t := view.Fit(
		view.Size{W: req.Canvas.Width, H: req.Canvas.Height},
		view.Size{W: req.Image.Width, H: req.Image.Height},
		zoom,
		view.Pt(req.Pan.X, req.Pan.Y),
	)
	p := view.Pt(req.Point.X, req.Point.Y)
	img := t.ToImage(p)
	resp := hitResponse{ImagePoint: pointBody{X: img.X, Y: img.Y}}

	s.mu.RLock()
	if id, ok := s.engine.NodeAt(p, s.graph, t); ok {
		resp.Node = id
	} else if e, ok := s.engine.EdgeAt(p, s.graph, t); ok {
		resp.Edge = &edgeBody{Source: e.Source, Target: e.Target}
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if s.path == "" {
		s.respondError(w, r, errs.New(errs.ErrCodeConflict, "graph has no file to save to"))
		return
	}

	s.mu.RLock()
	err := fgio.ExportJSON(r.Context(), s.graph, s.path)
	resp := saveResponse{Path: s.path, Nodes: s.graph.NodeCount(), Edges: s.graph.EdgeCount()}
	s.mu.RUnlock()

	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("saved", "file", s.path, "nodes", resp.Nodes, "edges", resp.Edges)
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	return errs.ValidateStruct(v)
}

func nodeParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// graphError maps a store error to a coded error.
func graphError(err error, what string) error {
	code := errs.ErrCodeInternal
	switch {
	case errors.Is(err, floorplan.ErrDuplicateNodeID), errors.Is(err, floorplan.ErrDuplicateEdge):
		code = errs.ErrCodeConflict
	case errors.Is(err, floorplan.ErrUnknownSourceNode), errors.Is(err, floorplan.ErrUnknownTargetNode):
		code = errs.ErrCodeNotFound
	case errors.Is(err, floorplan.ErrInvalidNodeID):
		code = errs.ErrCodeInvalidInput
	}
	return errs.New(code, "%s: %v", what, err)
}

func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", reqID, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errs.UserMessage(err),
		Code:      string(errs.GetCode(err)),
		RequestID: reqID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
