package view

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-6

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func TestFit(t *testing.T) {
	tests := []struct {
		name   string
		canvas Size
		image  Size
		zoom   float64
		pan    Point
		want   Transform
	}{
		{
			name:   "same size",
			canvas: Size{800, 600}, image: Size{800, 600}, zoom: 1,
			want: Transform{Scale: 1},
		},
		{
			name:   "letterboxed vertically",
			canvas: Size{800, 800}, image: Size{400, 200}, zoom: 1,
			want: Transform{Scale: 2, Offset: Point{0, 200}},
		},
		{
			name:   "pillarboxed horizontally",
			canvas: Size{1000, 500}, image: Size{1000, 1000}, zoom: 1,
			want: Transform{Scale: 0.5, Offset: Point{250, 0}},
		},
		{
			name:   "zoom and pan",
			canvas: Size{800, 600}, image: Size{800, 600}, zoom: 2, pan: Point{10, -20},
			want: Transform{Scale: 2, Offset: Point{-400 + 10, -300 - 20}},
		},
		{
			name:   "no image",
			canvas: Size{800, 600}, image: Size{}, zoom: 1, pan: Point{5, 5},
			want: Identity(),
		},
		{
			name:   "no canvas",
			canvas: Size{0, 600}, image: Size{800, 600}, zoom: 1,
			want: Identity(),
		},
		{
			name:   "zero zoom",
			canvas: Size{800, 600}, image: Size{800, 600}, zoom: 0,
			want: Identity(),
		},
		{
			name:   "NaN zoom",
			canvas: Size{800, 600}, image: Size{800, 600}, zoom: math.NaN(),
			want: Identity(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.canvas, tt.image, tt.zoom, tt.pan)
			if math.Abs(got.Scale-tt.want.Scale) > eps || !near(got.Offset, tt.want.Offset) {
				t.Errorf("Fit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransformConversions(t *testing.T) {
	tr := Transform{Scale: 2, Offset: Point{10, 20}}
	if got := tr.ToView(Pt(5, 5)); got != Pt(20, 30) {
		t.Errorf("ToView = %v", got)
	}
	if got := tr.ToImage(Pt(20, 30)); got != Pt(5, 5) {
		t.Errorf("ToImage = %v", got)
	}
	if got := tr.ToViewLength(8); got != 16 {
		t.Errorf("ToViewLength = %v", got)
	}
}

func TestTransformInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		tr := Transform{
			Scale:  0.05 + rng.Float64()*10,
			Offset: Point{(rng.Float64() - 0.5) * 4000, (rng.Float64() - 0.5) * 4000},
		}
		p := Point{(rng.Float64() - 0.5) * 10000, (rng.Float64() - 0.5) * 10000}
		if got := tr.ToImage(tr.ToView(p)); !near(got, p) {
			t.Fatalf("round trip of %v under %+v = %v", p, tr, got)
		}
	}
}

func TestFitInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		canvas := Size{100 + rng.Float64()*1900, 100 + rng.Float64()*1900}
		image := Size{50 + rng.Float64()*4000, 50 + rng.Float64()*4000}
		zoom := DefaultLimits().Clamp(rng.Float64() * 6)
		pan := Point{(rng.Float64() - 0.5) * 500, (rng.Float64() - 0.5) * 500}
		tr := Fit(canvas, image, zoom, pan)

		p := Point{rng.Float64() * image.W, rng.Float64() * image.H}
		if got := tr.ToImage(tr.ToView(p)); !near(got, p) {
			t.Fatalf("round trip of %v = %v", p, got)
		}
	}
}

func TestStateZoom(t *testing.T) {
	s := NewState(DefaultLimits())
	if s.Zoom() != 1 {
		t.Fatalf("initial zoom = %v", s.Zoom())
	}

	s.ZoomIn()
	if math.Abs(s.Zoom()-1.1) > eps {
		t.Errorf("after ZoomIn = %v, want 1.1", s.Zoom())
	}
	s.ZoomOut()
	if math.Abs(s.Zoom()-0.99) > eps {
		t.Errorf("after ZoomOut = %v, want 0.99", s.Zoom())
	}

	for i := 0; i < 100; i++ {
		s.Wheel(1)
	}
	if s.Zoom() != 5 {
		t.Errorf("zoom should clamp at 5, got %v", s.Zoom())
	}
	for i := 0; i < 100; i++ {
		s.Wheel(-120)
	}
	if s.Zoom() != 0.1 {
		t.Errorf("zoom should clamp at 0.1, got %v", s.Zoom())
	}

	s.Wheel(0)
	if s.Zoom() != 0.1 {
		t.Error("zero wheel delta should not zoom")
	}

	s.SetZoom(-3)
	if s.Zoom() != 0.1 {
		t.Errorf("SetZoom(-3) = %v", s.Zoom())
	}
	if s.Label() != "Zoom: 0.1x" {
		t.Errorf("Label = %q", s.Label())
	}
}

func TestStatePan(t *testing.T) {
	s := NewState(DefaultLimits())
	s.Image = Size{800, 600}

	s.PanBy(Pt(15, -5))
	s.PanBy(Pt(5, 5))
	if s.Pan() != Pt(20, 0) {
		t.Errorf("Pan = %v", s.Pan())
	}

	tr := s.Transform(Size{800, 600})
	if tr.Scale != 1 || tr.Offset != Pt(20, 0) {
		t.Errorf("Transform = %+v", tr)
	}

	s.SetPan(Pt(1e9, -1e9))
	if s.Pan() != Pt(1e9, -1e9) {
		t.Error("pan should be unbounded")
	}

	s.SetZoom(3)
	s.Reset()
	if s.Zoom() != 1 || s.Pan() != (Point{}) {
		t.Errorf("Reset left zoom=%v pan=%v", s.Zoom(), s.Pan())
	}
}

func TestSizeEmpty(t *testing.T) {
	tests := []struct {
		s    Size
		want bool
	}{
		{Size{1, 1}, false},
		{Size{0, 1}, true},
		{Size{1, -1}, true},
		{Size{math.NaN(), 1}, true},
		{Size{math.Inf(1), 1}, true},
	}
	for _, tt := range tests {
		if got := tt.s.Empty(); got != tt.want {
			t.Errorf("%v.Empty() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestPointDist(t *testing.T) {
	if d := Pt(0, 0).Dist(Pt(3, 4)); d != 5 {
		t.Errorf("Dist = %v", d)
	}
}
