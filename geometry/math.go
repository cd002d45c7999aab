// Package geometry provides the 2D primitives shared by the model, scene and
// layout packages. Coordinates are continuous (float64) because node
// positions live on an infinite canvas, not a character grid.
package geometry

import "math"

// Point represents a 2D coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the point translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from d to p.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Size represents the dimensions of an item.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the minimal rectangle enclosing both points.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains checks if a point lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() &&
		p.Y >= r.Y && p.Y <= r.Bottom()
}

// ContainsRect checks if o lies entirely within the rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() &&
		o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Union returns the minimal rectangle enclosing both rectangles.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Adjusted returns the rectangle with each side moved by the given deltas,
// mirroring the left/top/right/bottom adjustment used when growing or
// shrinking scene bounds.
func (r Rect) Adjusted(dx0, dy0, dx1, dy1 float64) Rect {
	return Rect{
		X:      r.X + dx0,
		Y:      r.Y + dy0,
		Width:  r.Width - dx0 + dx1,
		Height: r.Height - dy0 + dy1,
	}
}

// Expanded returns the rectangle grown by the margin on all four sides.
func (r Rect) Expanded(margin float64) Rect {
	return r.Adjusted(-margin, -margin, margin, margin)
}

// IsValid reports whether the rectangle has non-negative, finite dimensions.
func (r Rect) IsValid() bool {
	return r.Width >= 0 && r.Height >= 0 &&
		!math.IsNaN(r.X) && !math.IsNaN(r.Y) &&
		!math.IsInf(r.Width, 0) && !math.IsInf(r.Height, 0)
}

// AspectRatio returns width/height, or 0 for a degenerate rectangle.
func (r Rect) AspectRatio() float64 {
	if r.Height <= 0 {
		return 0
	}
	return r.Width / r.Height
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
