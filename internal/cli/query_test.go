package cli

import (
	"testing"

	"github.com/matzehuels/floorgraph/pkg/view"
)

func TestRunHitTest(t *testing.T) {
	c := testCLI()
	g := sampleGraph()
	engine := c.Config.Engine()

	tests := []struct {
		name     string
		opts     queryOpts
		at       view.Point
		wantNode string
		wantEdge string
		wantImg  view.Point
	}{
		{"node within tolerance", queryOpts{zoom: 1}, view.Pt(107, 100), "room_0", "", view.Pt(107, 100)},
		{"beyond tolerance", queryOpts{zoom: 1}, view.Pt(114, 130), "", "", view.Pt(114, 130)},
		{"edge", queryOpts{zoom: 1}, view.Pt(150, 104), "", "room_0-r2c_door_0", view.Pt(150, 104)},
		{
			name:     "fitted and zoomed",
			opts:     queryOpts{canvas: "800x600", imageSize: "400x300", zoom: 2, pan: "10,0"},
			at:       view.Pt(10, 100),
			wantNode: "room_0",
			wantImg:  view.Pt(100, 100),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := c.viewTransform(tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			res := runHitTest(g, engine, tr, tt.at)
			if res.Node != tt.wantNode {
				t.Errorf("Node = %q, want %q", res.Node, tt.wantNode)
			}
			gotEdge := ""
			if res.Edge != nil {
				gotEdge = res.Edge.Source + "-" + res.Edge.Target
			}
			if gotEdge != tt.wantEdge {
				t.Errorf("Edge = %q, want %q", gotEdge, tt.wantEdge)
			}
			if res.Image != tt.wantImg {
				t.Errorf("Image = %v, want %v", res.Image, tt.wantImg)
			}
		})
	}
}

func TestViewTransformClampsZoom(t *testing.T) {
	c := testCLI()
	tr, err := c.viewTransform(queryOpts{canvas: "100x100", imageSize: "100x100", zoom: 50})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Scale != c.Config.View.MaxZoom {
		t.Errorf("Scale = %v, want clamp to %v", tr.Scale, c.Config.View.MaxZoom)
	}

	if _, err := c.viewTransform(queryOpts{pan: "1"}); err == nil {
		t.Error("bad pan must fail")
	}
}
