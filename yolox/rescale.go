package yolox

import (
	"fmt"
	"image"
)

// Detection is a final detection in source image coordinates.
type Detection struct {
	// X1, Y1, X2, Y2 are the clipped box corners in source pixels.
	X1, Y1, X2, Y2 int
	// Score is the suppression score carried through unchanged.
	Score float32
	// Class is the class id.
	Class int
	// Label is the resolved class label, "unknown" for out-of-range ids.
	Label string
}

// String formats the detection for display.
//
// @example
// fmt.Println(det.String()) // person (0.91): (270, 270)-(370, 370)
func (d Detection) String() string {
	return fmt.Sprintf("%s (%.2f): (%d, %d)-(%d, %d)", d.Label, d.Score, d.X1, d.Y1, d.X2, d.Y2)
}

// ToRect converts the detection box to an image.Rectangle.
func (d Detection) ToRect() image.Rectangle {
	return image.Rect(d.X1, d.Y1, d.X2, d.Y2)
}

// Rescale maps suppression survivors back onto the source frame.
//
// Because the letterbox anchors content at the top-left, the inverse
// mapping is a plain division by the ratio with no translation offset.
// Coordinates are then clipped to [0, width] and [0, height] and
// truncated toward zero; truncation after clipping is a pure floor, so
// the integer box never escapes the frame. The invariant
// 0 <= X1 <= X2 <= width (and likewise for y) holds for every output.
//
// Arguments:
// - results: Suppression survivors in letterbox coordinates. Order is
//   preserved.
// - ratio: The uniform letterbox scale.
// - width: Source image width in pixels.
// - height: Source image height in pixels.
// - classes: Class table for label resolution.
//
// Returns:
// - Final detections, one per input result, in input order.
func Rescale(results []Result, ratio float32, width, height int, classes []string) []Detection {
	detections := make([]Detection, 0, len(results))

	for _, r := range results {
		x1 := r.Box.X1 / ratio
		y1 := r.Box.Y1 / ratio
		x2 := r.Box.X2 / ratio
		y2 := r.Box.Y2 / ratio

		// Clamp every coordinate into the frame interval. Decoded boxes
		// always have x1 <= x2, and clamping both ends into [0, width]
		// preserves that, so the invariant holds even for boxes entirely
		// outside the frame.
		x1 = min32(float32(width), max32(0, x1))
		y1 = min32(float32(height), max32(0, y1))
		x2 = max32(0, min32(float32(width), x2))
		y2 = max32(0, min32(float32(height), y2))

		detections = append(detections, Detection{
			X1:    int(x1),
			Y1:    int(y1),
			X2:    int(x2),
			Y2:    int(y2),
			Score: r.Score,
			Class: r.Class,
			Label: Label(classes, r.Class),
		})
	}

	return detections
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
