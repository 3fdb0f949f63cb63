// Package images - image decode, geometry, and annotation helpers for the
// detection pipeline.
package images

// Rect is a lightweight corner-form bounding box. Coordinates are kept as
// float32 so suppression does not lose sub-pixel overlap before the final
// integerization.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Width returns the box width.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the box height.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// Area returns the box area. Degenerate boxes have zero area.
func (r Rect) Area() float32 {
	w := r.Width()
	h := r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// CalculateIoU computes the Intersection over Union of two boxes.
//
// IoU = intersection area / union area, in [0, 1]. 1.0 means identical
// boxes, 0.0 means no overlap. The union is computed by
// inclusion-exclusion: Area(r) + Area(o) - intersection.
//
// Arguments:
// - r: The first rectangle.
// - o: The other rectangle.
//
// Returns:
// - The IoU score. 0.0 when the boxes do not overlap or either is
//   degenerate.
//
// @example
// a := images.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
// b := images.Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
// iou := images.CalculateIoU(a, b) // 25 / 175 = 0.142857
func CalculateIoU(r, o Rect) float32 {
	// Intersection corners: max of the starts, min of the ends.
	ix1 := maxf(r.X1, o.X1)
	iy1 := maxf(r.Y1, o.Y1)
	ix2 := minf(r.X2, o.X2)
	iy2 := minf(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
