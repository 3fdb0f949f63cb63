package yolox

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolox/images"
)

// Candidate is one decoded head row: a corner-form box in letterbox pixel
// space plus the raw objectness and per-class scores.
type Candidate struct {
	// Box is the decoded box in letterbox coordinates, corner form.
	Box images.Rect
	// Objectness is the raw objectness score of the row.
	Objectness float32
	// ClassScores are the per-class scores of the row. This slice aliases
	// the decoder input; it is not copied.
	ClassScores []float32
	// Row is the index of the source row in the head output. Suppression
	// uses it to keep ties in decode order.
	Row int
}

// Decode maps raw YOLOX head output rows onto absolute pixel boxes.
//
// Rows are laid out [cx, cy, w, h, objectness, class scores...] and walk
// the stride grids in configured stride order, row-major within each grid.
// For a cell (gx, gy) at stride s:
//
//	center_x = (raw_cx + gx) * s
//	center_y = (raw_cy + gy) * s
//	width    = exp(raw_w) * s
//	height   = exp(raw_h) * s
//
// and the corner form is x1 = cx - w/2, y1 = cy - h/2, x2 = cx + w/2,
// y2 = cy + h/2. The function is pure and preserves row order.
//
// Arguments:
// - output: The flat head output, length rows * (5 + classes).
// - config: Pipeline configuration (input size, strides, class count).
//
// Returns:
// - One Candidate per row, in row order.
// - An error wrapping ErrShapeMismatch when the output length does not
//   match the configured grids.
func Decode(output []float32, config *Config) ([]Candidate, error) {
	rowSize := config.rowSize()
	if len(output)%rowSize != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"output length %d not divisible by row size %d", len(output), rowSize)
	}

	numRows := len(output) / rowSize
	expected := config.expectedRows()
	if numRows != expected {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"got %d rows, grids for strides %v at %dx%d require %d",
			numRows, config.Strides, config.InputWidth, config.InputHeight, expected)
	}

	candidates := make([]Candidate, 0, numRows)
	row := 0

	for _, stride := range config.Strides {
		gridW := config.InputWidth / stride
		gridH := config.InputHeight / stride
		s := float32(stride)

		for gy := 0; gy < gridH; gy++ {
			for gx := 0; gx < gridW; gx++ {
				offset := row * rowSize

				cx := (output[offset+0] + float32(gx)) * s
				cy := (output[offset+1] + float32(gy)) * s
				w := math32.Exp(output[offset+2]) * s
				h := math32.Exp(output[offset+3]) * s

				candidates = append(candidates, Candidate{
					Box: images.Rect{
						X1: cx - w/2,
						Y1: cy - h/2,
						X2: cx + w/2,
						Y2: cy + h/2,
					},
					Objectness:  output[offset+4],
					ClassScores: output[offset+5 : offset+rowSize],
					Row:         row,
				})
				row++
			}
		}
	}

	return candidates, nil
}

// DecodeTensor decodes a head output delivered as a dense tensor. The
// tensor must be float32 with shape [1, N, 5+classes] or [N, 5+classes];
// anything else is an ErrShapeMismatch.
//
// @example
// t := tensor.New(tensor.WithShape(1, 8400, 85), tensor.WithBacking(data))
// candidates, err := yolox.DecodeTensor(t, cfg)
func DecodeTensor(t *tensor.Dense, config *Config) ([]Candidate, error) {
	if t.Dtype() != tensor.Float32 {
		return nil, errors.Wrapf(ErrShapeMismatch, "expected float32 tensor, got %v", t.Dtype())
	}

	shape := t.Shape()
	rowSize := config.rowSize()
	switch {
	case len(shape) == 3 && shape[0] == 1 && shape[2] == rowSize:
	case len(shape) == 2 && shape[1] == rowSize:
	default:
		return nil, errors.Wrapf(ErrShapeMismatch,
			"unsupported tensor shape %v, want [1 N %d] or [N %d]", shape, rowSize, rowSize)
	}

	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Wrap(ErrShapeMismatch, "tensor backing is not []float32")
	}

	return Decode(data, config)
}
