package io

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	errs "github.com/matzehuels/floorgraph/pkg/errors"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/observability"
)

// Document keys consumed by the reader. Everything else on a node is kept
// as an attribute.
const (
	keyNodes    = "nodes"
	keyEdges    = "edges"
	keyID       = "id"
	keyX        = "x"
	keyY        = "y"
	keyPosition = "position"
	keySource   = "source"
	keyTarget   = "target"
)

var (
	// ErrNotObject marks a node entry that is not a JSON object.
	ErrNotObject = errors.New("entry is not an object")

	// ErrBadID marks an id or edge endpoint that is neither a string nor a
	// number.
	ErrBadID = errors.New("id must be a string or number")

	// ErrBadPosition marks a position array without two numeric values.
	ErrBadPosition = errors.New("position must hold two numbers")

	// ErrBadCoordinate marks a non-numeric x or y.
	ErrBadCoordinate = errors.New("coordinate must be a number")

	// ErrBadEdge marks an edge entry that is neither a source/target object
	// nor a pair.
	ErrBadEdge = errors.New("edge must be a source/target object or a pair")
)

// Issue describes one entry that was not loaded.
type Issue struct {
	Section string // "nodes" or "edges"
	Index   int    // position within the section
	Err     error
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%d]: %v", i.Section, i.Index, i.Err)
}

// Report lists the entries a read could not load. Skipped entries were
// malformed; rejected edges were well-formed but refused by the graph.
type Report struct {
	Skipped  []Issue
	Rejected []Issue
}

// Clean reports whether every entry was loaded.
func (r *Report) Clean() bool {
	return r == nil || (len(r.Skipped) == 0 && len(r.Rejected) == 0)
}

// Issues returns skipped and rejected entries together.
func (r *Report) Issues() []Issue {
	if r == nil {
		return nil
	}
	out := make([]Issue, 0, len(r.Skipped)+len(r.Rejected))
	out = append(out, r.Skipped...)
	return append(out, r.Rejected...)
}

// ReadJSON decodes a graph document from r into a new graph.
//
// Node identifiers are taken verbatim (numeric ids by their literal text).
// After loading, identifier counters are recomputed so that generated ids
// continue above the imported ones.
//
// The error is non-nil only when the document as a whole cannot be used;
// the graph is then nil. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*floorplan.Graph, *Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeIO, err, "read graph document")
	}
	return UnmarshalGraph(data)
}

// UnmarshalGraph is ReadJSON for an in-memory document.
func UnmarshalGraph(data []byte) (*floorplan.Graph, *Report, error) {
	if !json.Valid(data) {
		return nil, nil, errs.New(errs.ErrCodeInvalidFormat, "graph document is not valid JSON")
	}
	_, top, err := floorplan.DecodeObject(data)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph document must be a JSON object")
	}
	nodes, err := section(top, keyNodes)
	if err != nil {
		return nil, nil, err
	}
	edges, err := section(top, keyEdges)
	if err != nil {
		return nil, nil, err
	}

	g := floorplan.New()
	rep := &Report{}

	explicit := explicitIDs(nodes)
	reserved := func(id string) bool { _, ok := explicit[id]; return ok }
	for i, raw := range nodes {
		if err := readNode(g, raw, reserved); err != nil {
			rep.Skipped = append(rep.Skipped, Issue{Section: keyNodes, Index: i, Err: err})
		}
	}
	for i, raw := range edges {
		src, dst, attrs, err := parseEdge(raw)
		if err != nil {
			rep.Skipped = append(rep.Skipped, Issue{Section: keyEdges, Index: i, Err: err})
			continue
		}
		if err := g.ConnectNodes(src, dst, attrs); err != nil {
			rep.Rejected = append(rep.Rejected, Issue{
				Section: keyEdges,
				Index:   i,
				Err:     fmt.Errorf("%s-%s: %w", src, dst, err),
			})
		}
	}

	g.RecountIdentifiers()
	return g, rep, nil
}

// ImportJSON reads the graph document at path.
//
// A missing file yields an [errs.ErrCodeFileNotFound] error, other read
// failures [errs.ErrCodeIO]. Load events are reported to the registered
// [observability.IOHooks].
func ImportJSON(ctx context.Context, path string) (*floorplan.Graph, *Report, error) {
	hooks := observability.IO()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, rep, err := importFile(path)

	var nodes, edges, skipped int
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	if rep != nil {
		skipped = len(rep.Skipped) + len(rep.Rejected)
	}
	hooks.OnLoadComplete(ctx, path, nodes, edges, skipped, time.Since(start), err)
	return g, rep, err
}

func importFile(path string) (*floorplan.Graph, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	g, rep, err := ReadJSON(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, rep, nil
}

// section returns the entries of an optional top-level array. Absent and
// null sections are empty.
func section(top map[string]json.RawMessage, key string) ([]json.RawMessage, error) {
	raw, ok := top[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "%q must be an array", key)
	}
	return items, nil
}

// explicitIDs collects every usable id in the node section up front so that
// generated fallbacks cannot claim one that appears later in the document.
func explicitIDs(nodes []json.RawMessage) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, raw := range nodes {
		_, fields, err := floorplan.DecodeObject(raw)
		if err != nil {
			continue
		}
		if id, ok, err := scalarID(fields[keyID]); err == nil && ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func readNode(g *floorplan.Graph, raw json.RawMessage, reserved func(string) bool) error {
	keys, fields, err := floorplan.DecodeObject(raw)
	if err != nil {
		return ErrNotObject
	}

	id, hasID, err := scalarID(fields[keyID])
	if err != nil {
		return err
	}
	x, y, err := position(fields)
	if err != nil {
		return err
	}

	attrs := floorplan.NewAttributes()
	for _, k := range keys {
		switch k {
		case keyID, keyX, keyY, keyPosition:
			continue
		}
		attrs.SetRaw(k, fields[k])
	}

	if !hasID {
		id = g.GenerateID(floorplan.KindUnknown, reserved)
	}
	g.AddNode(x, y, id, attrs)
	return nil
}

// position resolves a node's coordinates. An array "position" takes
// precedence; any other "position" value is ignored in favour of x/y.
func position(fields map[string]json.RawMessage) (x, y float64, err error) {
	if raw, ok := fields[keyPosition]; ok && isArray(raw) {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
			return 0, 0, ErrBadPosition
		}
		if json.Unmarshal(pair[0], &x) != nil || json.Unmarshal(pair[1], &y) != nil {
			return 0, 0, ErrBadPosition
		}
		return x, y, nil
	}
	if x, err = coordinate(fields[keyX]); err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	if y, err = coordinate(fields[keyY]); err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return x, y, nil
}

func coordinate(raw json.RawMessage) (float64, error) {
	if raw == nil || isNull(raw) {
		return 0, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, ErrBadCoordinate
	}
	return v, nil
}

// parseEdge accepts {"source", "target", ...} objects and [source, target]
// pairs. Extra object keys become edge attributes.
func parseEdge(raw json.RawMessage) (src, dst string, attrs *floorplan.Attributes, err error) {
	if isArray(raw) {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
			return "", "", nil, ErrBadEdge
		}
		src, dst, err = endpoints(pair[0], pair[1])
		return src, dst, nil, err
	}

	keys, fields, err := floorplan.DecodeObject(raw)
	if err != nil {
		return "", "", nil, ErrBadEdge
	}
	src, dst, err = endpoints(fields[keySource], fields[keyTarget])
	if err != nil {
		return "", "", nil, err
	}
	attrs = floorplan.NewAttributes()
	for _, k := range keys {
		if k != keySource && k != keyTarget {
			attrs.SetRaw(k, fields[k])
		}
	}
	return src, dst, attrs, nil
}

func endpoints(a, b json.RawMessage) (string, string, error) {
	src, ok, err := scalarID(a)
	if err != nil || !ok {
		return "", "", fmt.Errorf("source: %w", ErrBadEdge)
	}
	dst, ok, err := scalarID(b)
	if err != nil || !ok {
		return "", "", fmt.Errorf("target: %w", ErrBadEdge)
	}
	return src, dst, nil
}

// scalarID reads an identifier value. Strings are used as-is and numbers by
// their literal text. Absent, null and empty-string ids report ok=false.
func scalarID(raw json.RawMessage) (id string, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return "", false, nil
	}
	switch c := raw[0]; {
	case c == '"':
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", false, ErrBadID
		}
		return id, id != "", nil
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false, ErrBadID
		}
		return n.String(), true, nil
	default:
		return "", false, ErrBadID
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
