package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	assert.Equal(t, Point{X: 5, Y: 6}, p.Add(Point{X: 2, Y: 2}))
	assert.Equal(t, Point{X: 1, Y: 2}, p.Sub(Point{X: 2, Y: 2}))
	assert.Equal(t, 5.0, Point{}.DistanceTo(p))
}

func TestRectFromPointsNormalizesOrder(t *testing.T) {
	a := Point{X: 10, Y: -5}
	b := Point{X: -2, Y: 7}
	rect := RectFromPoints(a, b)
	assert.Equal(t, Rect{X: -2, Y: -5, Width: 12, Height: 12}, rect)
	assert.Equal(t, rect, RectFromPoints(b, a))
}

func TestRectContainment(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Point{X: 5, Y: 5}))
	assert.True(t, r.Contains(Point{X: 10, Y: 10}), "edges included")
	assert.False(t, r.Contains(Point{X: 11, Y: 5}))

	assert.True(t, r.ContainsRect(Rect{X: 2, Y: 2, Width: 6, Height: 6}))
	assert.False(t, r.ContainsRect(Rect{X: 5, Y: 5, Width: 6, Height: 6}))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 4, Height: 4}
	b := Rect{X: 6, Y: -2, Width: 2, Height: 3}
	union := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: -2, Width: 8, Height: 6}, union)
	assert.True(t, union.ContainsRect(a))
	assert.True(t, union.ContainsRect(b))
}

func TestRectAdjustedAndExpanded(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	grown := r.Adjusted(-5, -5, 5, 5)
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 30, Height: 30}, grown)
	assert.Equal(t, grown, r.Expanded(5))

	shrunk := r.Adjusted(5, 5, -5, -5)
	assert.Equal(t, Rect{X: 15, Y: 15, Width: 10, Height: 10}, shrunk)
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, 2.0, Rect{Width: 20, Height: 10}.AspectRatio())
	assert.Equal(t, 0.0, Rect{Width: 20}.AspectRatio(), "degenerate rect")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(99, 0, 10))
}
