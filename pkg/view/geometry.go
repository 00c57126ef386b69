package view

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate in either space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Size is a width and height in pixels.
type Size struct {
	W, H float64
}

// Empty reports whether either dimension is non-positive or not finite.
func (s Size) Empty() bool {
	return !(s.W > 0 && s.H > 0) || math.IsInf(s.W, 0) || math.IsInf(s.H, 0)
}

// Scale returns s with both dimensions multiplied by k.
func (s Size) Scale(k float64) Size { return Size{s.W * k, s.H * k} }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }
