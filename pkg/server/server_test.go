package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgraph/pkg/buildinfo"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/observability"
	"github.com/matzehuels/floorgraph/pkg/view"
)

func fixture() *floorplan.Graph {
	g := floorplan.New()
	room := floorplan.NewAttributes().With(floorplan.AttrType, "room")
	g.AddNode(100, 100, "", room)
	g.AddNode(200, 100, "", room)
	g.AddEdge("room_0", "room_1", nil)
	return g
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndRequestID(t *testing.T) {
	h := New(fixture(), "").Handler()

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var health healthResponse
	decodeBody(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, buildinfo.Version, health.Build.Version)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestGetGraph(t *testing.T) {
	h := New(fixture(), "").Handler()

	w := do(t, h, http.MethodGet, "/api/v1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	g, rep, err := fgio.ReadJSON(w.Body)
	require.NoError(t, err)
	assert.True(t, rep.Clean())
	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.HasEdge("room_0", "room_1"))
}

func TestGetStats(t *testing.T) {
	h := New(fixture(), "").Handler()

	w := do(t, h, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp statsResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Nodes)
	assert.Equal(t, 1, resp.Edges)
	assert.Equal(t, 2, resp.ByKind["room"])
	assert.Equal(t, "room_2", resp.NextIDs["room"])
	assert.Equal(t, "corridor_connect_0", resp.NextIDs["corridor"])
}

func TestCreateNode(t *testing.T) {
	s := New(fixture(), "")
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/v1/nodes", `{"x":5,"y":6,"attributes":{"type":"door","label":"A"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]string
	decodeBody(t, w, &created)
	assert.Equal(t, "r2c_door_0", created["id"])

	w = do(t, h, http.MethodPost, "/api/v1/nodes", `{"x":0,"y":0,"id":"lobby"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 4, s.Stats().NodeCount)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing y", `{"x":1}`, http.StatusBadRequest, "y is required"},
		{"bad json", `{"x":`, http.StatusBadRequest, "invalid request body"},
		{"unknown field", `{"x":1,"y":2,"z":3}`, http.StatusBadRequest, "invalid request body"},
		{"bad id", `{"x":1,"y":2,"id":" padded "}`, http.StatusBadRequest, "id is not a valid node id"},
		{"duplicate id", `{"x":1,"y":2,"id":"room_0"}`, http.StatusConflict, "duplicate node ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/nodes", tt.body)
			assert.Equal(t, tt.status, w.Code)
			var resp errorResponse
			decodeBody(t, w, &resp)
			assert.Contains(t, resp.Error, tt.msg)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
	assert.Equal(t, 4, s.Stats().NodeCount)
}

func TestCreateNodeDefaultFloor(t *testing.T) {
	s := New(floorplan.New(), "", WithDefaultFloor("Level_2"))
	h := s.Handler()

	tests := []struct {
		name  string
		body  string
		id    string
		floor string
		has   bool
	}{
		{"room", `{"x":1,"y":1,"attributes":{"type":"room"}}`, "room_0", "Level_2", true},
		{"room with floor", `{"x":1,"y":1,"attributes":{"type":"Room","floor":"Basement"}}`, "room_1", "Basement", true},
		{"door", `{"x":1,"y":1,"attributes":{"type":"door"}}`, "r2c_door_0", "", false},
		{"untyped", `{"x":1,"y":1}`, "room_2", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/nodes", tt.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var g struct {
				Nodes []map[string]any `json:"nodes"`
			}
			decodeBody(t, do(t, h, http.MethodGet, "/api/v1/graph", ""), &g)
			var node map[string]any
			for _, n := range g.Nodes {
				if n["id"] == tt.id {
					node = n
				}
			}
			require.NotNil(t, node, "node %s not served", tt.id)
			floor, ok := node["floor"]
			assert.Equal(t, tt.has, ok)
			if tt.has {
				assert.Equal(t, tt.floor, floor)
			}
		})
	}
}

func TestMoveNode(t *testing.T) {
	g := fixture()
	h := New(g, "").Handler()

	w := do(t, h, http.MethodPatch, "/api/v1/nodes/room_1", `{"x":250,"y":0}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	n, _ := g.Node("room_1")
	assert.Equal(t, 250.0, n.X)
	assert.Equal(t, 0.0, n.Y)

	w = do(t, h, http.MethodPatch, "/api/v1/nodes/missing", `{"x":1,"y":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/api/v1/nodes/room_1", `{"x":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteNodeCascades(t *testing.T) {
	s := New(fixture(), "")
	h := s.Handler()

	w := do(t, h, http.MethodDelete, "/api/v1/nodes/room_0", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	st := s.Stats()
	assert.Equal(t, 1, st.NodeCount)
	assert.Equal(t, 0, st.EdgeCount)

	w = do(t, h, http.MethodDelete, "/api/v1/nodes/room_0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEdges(t *testing.T) {
	s := New(fixture(), "")
	h := s.Handler()
	do(t, h, http.MethodPost, "/api/v1/nodes", `{"x":300,"y":100,"id":"stairs"}`)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"reverse duplicate", http.MethodPost, `{"source":"room_1","target":"room_0"}`, http.StatusConflict},
		{"unknown target", http.MethodPost, `{"source":"room_1","target":"lift"}`, http.StatusNotFound},
		{"unknown source", http.MethodPost, `{"source":"lift","target":"room_1"}`, http.StatusNotFound},
		{"missing target", http.MethodPost, `{"source":"room_1"}`, http.StatusBadRequest},
		{"create", http.MethodPost, `{"source":"room_1","target":"stairs","attributes":{"weight":2}}`, http.StatusCreated},
		{"delete reversed", http.MethodDelete, `{"source":"room_1","target":"room_0"}`, http.StatusNoContent},
		{"delete again", http.MethodDelete, `{"source":"room_0","target":"room_1"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, "/api/v1/edges", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	st := s.Stats()
	assert.Equal(t, 1, st.EdgeCount)
}

func TestHit(t *testing.T) {
	h := New(fixture(), "").Handler()

	tests := []struct {
		name string
		body string
		want hitResponse
	}{
		{
			name: "node within tolerance",
			body: `{"point":{"x":107,"y":100}}`,
			want: hitResponse{Node: "room_0", ImagePoint: pointBody{107, 100}},
		},
		{
			name: "edge",
			body: `{"point":{"x":150,"y":103}}`,
			want: hitResponse{Edge: &edgeBody{"room_0", "room_1"}, ImagePoint: pointBody{150, 103}},
		},
		{
			name: "miss",
			body: `{"point":{"x":150,"y":150}}`,
			want: hitResponse{ImagePoint: pointBody{150, 150}},
		},
		{
			name: "zoomed",
			body: `{"canvas":{"width":800,"height":600},"image":{"width":800,"height":600},"zoom":2,"point":{"x":-200,"y":-100}}`,
			want: hitResponse{Node: "room_0", ImagePoint: pointBody{100, 100}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/hit", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var got hitResponse
			decodeBody(t, w, &got)
			assert.Equal(t, tt.want, got)
		})
	}

	w := do(t, h, http.MethodPost, "/api/v1/hit", `{"zoom":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHitClampsZoom(t *testing.T) {
	body := `{"canvas":{"width":1000,"height":1000},"image":{"width":1000,"height":1000},"zoom":50,"point":{"x":%g,"y":%g}}`

	tests := []struct {
		name  string
		opts  []Option
		point float64
	}{
		{"default maximum", nil, -1500},
		{"configured maximum", []Option{WithLimits(view.Limits{MinZoom: 0.5, MaxZoom: 2, StepIn: 1.1, StepOut: 0.9})}, -300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(fixture(), "", tt.opts...).Handler()
			w := do(t, h, http.MethodPost, "/api/v1/hit", fmt.Sprintf(body, tt.point, tt.point))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var got hitResponse
			decodeBody(t, w, &got)
			assert.Equal(t, hitResponse{Node: "room_0", ImagePoint: pointBody{100, 100}}, got)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	s := New(fixture(), path)
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/v1/nodes", `{"x":1,"y":2,"attributes":{"type":"corridor"}}`)
	w := do(t, h, http.MethodPost, "/api/v1/save", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp saveResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, saveResponse{Path: path, Nodes: 3, Edges: 1}, resp)

	g, _, err := fgio.ImportJSON(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, g.HasNode("corridor_connect_0"))

	w = do(t, New(fixture(), "").Handler(), http.MethodPost, "/api/v1/save", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, fgio.ExportJSON(context.Background(), fixture(), path))

	s := New(floorplan.New(), path)
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 2, s.Stats().NodeCount)

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": {}`), 0o644))
	assert.Error(t, s.Reload(context.Background()))
	assert.Equal(t, 2, s.Stats().NodeCount, "failed reload must keep the served graph")
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (r *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+path)
}

func (r *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	h := New(fixture(), "").Handler()
	do(t, h, http.MethodGet, "/health", "")
	do(t, h, http.MethodDelete, "/api/v1/nodes/missing", "")

	assert.Equal(t, []string{"GET /health", "DELETE /api/v1/nodes/missing"}, hooks.requests)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
}

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() { calls.Add(1) }) }()

	other := filepath.Join(filepath.Dir(path), "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[]}`), 0o644))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
