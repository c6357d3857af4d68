package region

import "math"

// Point is a 2D location in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is a rectangular candidate placement area produced by a detector.
//
// Coordinates are image-space pixels with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Width and Height are
// expected to be non-negative. Confidence is intended to stay in [0, 1] but
// is not enforced here; producers clamp where it matters. Label records the
// origin of the region (e.g. "edge_frame", "contour_rectangle",
// "fallback_center") and may contain several origins joined by "+" after
// merging.
//
// Regions are plain values: every operation returns a new Region and never
// mutates its operands.
type Region struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

// New creates a region from its top-left corner, size, confidence and label.
func New(x, y, width, height, confidence float64, label string) Region {
	return Region{X: x, Y: y, Width: width, Height: height, Confidence: confidence, Label: label}
}

// Area returns the region's area in square pixels.
func (r Region) Area() float64 {
	return r.Width * r.Height
}

// Center returns the region's center point.
func (r Region) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns the four corner points in clockwise order starting from
// the top-left corner.
func (r Region) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// AspectRatio returns width divided by height, or 0 when the height is 0.
func (r Region) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Right returns the exclusive right edge coordinate.
func (r Region) Right() float64 { return r.X + r.Width }

// Bottom returns the exclusive bottom edge coordinate.
func (r Region) Bottom() float64 { return r.Y + r.Height }

// Intersects reports whether the two regions overlap with positive area.
func (r Region) Intersects(o Region) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// IoU computes the intersection-over-union of two regions.
//
// The result is the area of the intersection rectangle divided by the area
// of the union (area(a) + area(b) - intersection). It is 0 for disjoint or
// degenerate regions, 1 for identical regions, and symmetric in its
// arguments.
func (r Region) IoU(o Region) float64 {
	ix := math.Max(r.X, o.X)
	iy := math.Max(r.Y, o.Y)
	ix2 := math.Min(r.Right(), o.Right())
	iy2 := math.Min(r.Bottom(), o.Bottom())

	iw := ix2 - ix
	ih := iy2 - iy
	if iw <= 0 || ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// WithinBounds reports whether the region lies entirely inside an image of
// the given dimensions.
func (r Region) WithinBounds(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= float64(width) && r.Bottom() <= float64(height)
}

// Scale returns the region with all geometry multiplied by factor.
// Confidence and label are unchanged.
func (r Region) Scale(factor float64) Region {
	return Region{
		X:          r.X * factor,
		Y:          r.Y * factor,
		Width:      r.Width * factor,
		Height:     r.Height * factor,
		Confidence: r.Confidence,
		Label:      r.Label,
	}
}

// Map returns the region as a flat key-value map, the shape callers outside
// the engine consume.
func (r Region) Map() map[string]interface{} {
	return map[string]interface{}{
		"x":          r.X,
		"y":          r.Y,
		"width":      r.Width,
		"height":     r.Height,
		"confidence": r.Confidence,
		"label":      r.Label,
	}
}
