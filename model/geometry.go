package model

import "math"

// PointsPerInch is the number of page points in one inch.
const PointsPerInch = 72.0

// BBox represents an axis-aligned bounding box in page points.
// The origin is the top-left corner of the page and Y increases downward,
// so Y0 is the top edge and Y1 the bottom edge.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from its edge coordinates
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent. Malformed boxes may yield a negative value.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent. Malformed boxes may yield a negative value.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// CenterX returns the horizontal center
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the vertical center
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Area returns the area of the bounding box, or 0 for degenerate boxes
func (b BBox) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width() * b.Height()
}

// IsEmpty returns true if the bounding box has zero or negative area
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Intersection returns the overlapping region of two boxes.
// The result is the zero BBox when the boxes do not overlap on both axes.
func (b BBox) Intersection(other BBox) BBox {
	x0 := math.Max(b.X0, other.X0)
	y0 := math.Max(b.Y0, other.Y0)
	x1 := math.Min(b.X1, other.X1)
	y1 := math.Min(b.Y1, other.Y1)

	if x1 <= x0 || y1 <= y0 {
		return BBox{}
	}
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// OverlapRatio returns the intersection area divided by the smaller of the
// two box areas. Returns value between 0 and 1.
func (b BBox) OverlapRatio(other BBox) float64 {
	xOverlap := math.Max(0, math.Min(b.X1, other.X1)-math.Max(b.X0, other.X0))
	yOverlap := math.Max(0, math.Min(b.Y1, other.Y1)-math.Max(b.Y0, other.Y0))
	if xOverlap == 0 || yOverlap == 0 {
		return 0
	}

	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 {
		return 0
	}

	return (xOverlap * yOverlap) / minArea
}

// ClampTo returns the box clipped to [0,width] x [0,height]
func (b BBox) ClampTo(width, height float64) BBox {
	return BBox{
		X0: clamp(b.X0, 0, width),
		Y0: clamp(b.Y0, 0, height),
		X1: clamp(b.X1, 0, width),
		Y1: clamp(b.Y1, 0, height),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// PageSize holds page dimensions in points
type PageSize struct {
	Width  float64
	Height float64
}

// Inches returns the page dimensions in inches
func (s PageSize) Inches() (float64, float64) {
	return s.Width / PointsPerInch, s.Height / PointsPerInch
}
