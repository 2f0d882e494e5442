// Package geometry converts between screen space and world space for the
// board view.
package geometry

import "math"

// Scale bounds for the board view.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// Transform is the pan/zoom state of a view: world point w is drawn at
// screen point w*Scale + (TranslateX, TranslateY).
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// IdentityTransform puts world (0, 0) at the top-left corner of the
// viewport at 100% zoom.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// ClampScale limits s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Matrix returns the transform as an affine matrix: Translate * Scale.
func (t Transform) Matrix() Matrix2D {
	return Translate(t.TranslateX, t.TranslateY).Multiply(Scale(t.Scale, t.Scale))
}

// WorldToScreen maps a world point to viewport pixels.
func (t Transform) WorldToScreen(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// ScreenToWorld maps viewport pixels to a world point. Scale is expected
// to be clamped already and so is never zero.
func (t Transform) ScreenToWorld(p Point) Point {
	return Point{
		X: (p.X - t.TranslateX) / t.Scale,
		Y: (p.Y - t.TranslateY) / t.Scale,
	}
}

// VisibleRect returns the region of world space shown by a viewport of
// the given pixel size.
func (t Transform) VisibleRect(size Size) Rect {
	left := -t.TranslateX / t.Scale
	top := -t.TranslateY / t.Scale
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + size.Width/t.Scale,
		Bottom: top + size.Height/t.Scale,
	}
}
