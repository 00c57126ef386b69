package io

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	errs "github.com/matzehuels/floorgraph/pkg/errors"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/observability"
)

type document struct {
	Nodes []nodeEntry `json:"nodes"`
	Edges []edgeEntry `json:"edges"`
}

type nodeEntry struct{ *floorplan.Node }

type edgeEntry struct{ floorplan.Edge }

// MarshalJSON writes id, type, position and floor first, followed by the
// remaining attributes in insertion order.
func (n nodeEntry) MarshalJSON() ([]byte, error) {
	out := floorplan.NewAttributes()
	out.SetString(keyID, n.ID)
	if raw, ok := n.Attrs.Get(floorplan.AttrType); ok {
		out.SetRaw(floorplan.AttrType, raw)
	}
	if err := out.Set(keyPosition, [2]float64{n.X, n.Y}); err != nil {
		return nil, err
	}
	if raw, ok := n.Attrs.Get(floorplan.AttrFloor); ok {
		out.SetRaw(floorplan.AttrFloor, raw)
	}
	for _, k := range n.Attrs.Keys() {
		switch k {
		case keyID, keyX, keyY, keyPosition, floorplan.AttrType, floorplan.AttrFloor:
			continue
		}
		raw, _ := n.Attrs.Get(k)
		out.SetRaw(k, raw)
	}
	return out.MarshalJSON()
}

// MarshalJSON writes source and target in stored order, then any edge
// attributes.
func (e edgeEntry) MarshalJSON() ([]byte, error) {
	out := floorplan.NewAttributes()
	out.SetString(keySource, e.Source)
	out.SetString(keyTarget, e.Target)
	for _, k := range e.Attrs.Keys() {
		if k == keySource || k == keyTarget {
			continue
		}
		raw, _ := e.Attrs.Get(k)
		out.SetRaw(k, raw)
	}
	return out.MarshalJSON()
}

func newDocument(g *floorplan.Graph) document {
	nodes := g.Nodes()
	edges := g.Edges()
	doc := document{
		Nodes: make([]nodeEntry, len(nodes)),
		Edges: make([]edgeEntry, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = nodeEntry{n}
	}
	for i, e := range edges {
		doc.Edges[i] = edgeEntry{e}
	}
	return doc
}

// WriteJSON encodes g as an indented graph document and writes it to w.
// The output can be re-read with [ReadJSON].
func WriteJSON(g *floorplan.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newDocument(g)); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "encode graph document")
	}
	return nil
}

// MarshalGraph is WriteJSON into a byte slice.
func MarshalGraph(g *floorplan.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes g to path, creating parent directories as needed.
// Save events are reported to the registered [observability.IOHooks].
func ExportJSON(ctx context.Context, g *floorplan.Graph, path string) error {
	hooks := observability.IO()
	hooks.OnSaveStart(ctx, path)
	start := time.Now()

	err := exportFile(g, path)

	hooks.OnSaveComplete(ctx, path, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	return err
}

func exportFile(g *floorplan.Graph, path string) error {
	if err := errs.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "create directory %s", dir)
		}
	}

	// Encode before truncating so a failure leaves the previous file intact.
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
