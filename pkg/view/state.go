package view

import "fmt"

// Limits bounds the zoom level and sets the wheel step factors.
type Limits struct {
	MinZoom float64
	MaxZoom float64
	StepIn  float64 // factor applied by ZoomIn, > 1
	StepOut float64 // factor applied by ZoomOut, < 1
}

// DefaultLimits returns the zoom range [0.1, 5] with 10% wheel steps.
func DefaultLimits() Limits {
	return Limits{MinZoom: 0.1, MaxZoom: 5.0, StepIn: 1.1, StepOut: 0.9}
}

// Clamp restricts z to [MinZoom, MaxZoom].
func (l Limits) Clamp(z float64) float64 {
	return max(l.MinZoom, min(l.MaxZoom, z))
}

// State is the interactive view state of one editing session: zoom level,
// pan offset and the natural size of the background image. It is not
// persisted.
type State struct {
	Limits Limits
	Image  Size

	zoom float64
	pan  Point
}

// NewState returns a state at zoom 1 with no pan.
func NewState(limits Limits) *State {
	return &State{Limits: limits, zoom: limits.Clamp(1)}
}

// Zoom returns the current zoom level.
func (s *State) Zoom() float64 { return s.zoom }

// Pan returns the current pan offset in view pixels.
func (s *State) Pan() Point { return s.pan }

// SetZoom sets the zoom level, clamped to the limits.
func (s *State) SetZoom(z float64) { s.zoom = s.Limits.Clamp(z) }

// ZoomIn applies one wheel step towards larger magnification.
func (s *State) ZoomIn() { s.SetZoom(s.zoom * s.Limits.StepIn) }

// ZoomOut applies one wheel step towards smaller magnification.
func (s *State) ZoomOut() { s.SetZoom(s.zoom * s.Limits.StepOut) }

// Wheel zooms in for positive delta and out for negative delta. A zero delta
// is ignored.
func (s *State) Wheel(delta float64) {
	switch {
	case delta > 0:
		s.ZoomIn()
	case delta < 0:
		s.ZoomOut()
	}
}

// SetPan replaces the pan offset. Pan is unbounded.
func (s *State) SetPan(p Point) { s.pan = p }

// PanBy moves the pan offset by delta.
func (s *State) PanBy(delta Point) { s.pan = s.pan.Add(delta) }

// Reset restores zoom 1 and removes the pan.
func (s *State) Reset() {
	s.zoom = s.Limits.Clamp(1)
	s.pan = Point{}
}

// Transform computes the image/view mapping for a canvas of the given size.
func (s *State) Transform(canvas Size) Transform {
	return Fit(canvas, s.Image, s.zoom, s.pan)
}

// Label renders the zoom level for an on-screen indicator, e.g. "Zoom: 1.5x".
func (s *State) Label() string { return fmt.Sprintf("Zoom: %.1fx", s.zoom) }
