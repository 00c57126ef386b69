package view

import "math"

// Transform is an axis-aligned uniform scale followed by a translation.
// The zero value is not usable; start from Identity or Fit.
type Transform struct {
	Scale  float64
	Offset Point
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform { return Transform{Scale: 1} }

// Fit fits image into canvas preserving aspect ratio, multiplies the fitted
// scale by zoom, centres the result and then shifts it by pan.
//
// Without a usable image or canvas, or when the resulting scale is not
// positive, Fit returns Identity so that conversions stay well defined.
func Fit(canvas, image Size, zoom float64, pan Point) Transform {
	if canvas.Empty() || image.Empty() {
		return Identity()
	}
	scale := math.Min(canvas.W/image.W, canvas.H/image.H) * zoom
	if !(scale > 0) || math.IsInf(scale, 0) {
		return Identity()
	}
	scaled := image.Scale(scale)
	return Transform{
		Scale: scale,
		Offset: Point{
			X: (canvas.W-scaled.W)/2 + pan.X,
			Y: (canvas.H-scaled.H)/2 + pan.Y,
		},
	}
}

// ToView converts an image-space point to view space.
func (t Transform) ToView(p Point) Point {
	return p.Mul(t.Scale).Add(t.Offset)
}

// ToImage converts a view-space point to image space.
func (t Transform) ToImage(p Point) Point {
	d := p.Sub(t.Offset)
	return Point{d.X / t.Scale, d.Y / t.Scale}
}

// ToViewLength converts an image-space distance to view space.
func (t Transform) ToViewLength(d float64) float64 { return d * t.Scale }
