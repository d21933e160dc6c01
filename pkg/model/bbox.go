package model

// BoundingBox represents a rectangular area with coordinates
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box
func (b BoundingBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsZero reports whether the box carries no position information.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// Center returns the midpoint of the bounding box
func (b BoundingBox) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// IntersectionArea returns the area shared by two bounding boxes.
func (b BoundingBox) IntersectionArea(other BoundingBox) float64 {
	w := min(b.X1, other.X1) - max(b.X0, other.X0)
	h := min(b.Y1, other.Y1) - max(b.Y0, other.Y0)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// OverlapRatio returns the fraction of b's own area covered by other.
// A zero-area box overlaps nothing.
func (b BoundingBox) OverlapRatio(other BoundingBox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return b.IntersectionArea(other) / area
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
