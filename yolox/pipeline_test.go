package yolox

import (
	"image/color"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// syntheticOutput builds a default-sized head output with a single live
// row: a 100x100 box centered at (320, 320), emitted by stride-16 cell
// (20, 20), objectness 0.9 and class-0 score 0.9.
func syntheticOutput(t testing.TB, config *Config) []float32 {
	t.Helper()
	output := make([]float32, config.expectedRows()*config.rowSize())

	// Rows walk strides in order, so the stride-16 grid starts after the
	// 80x80 stride-8 grid.
	row := 80*80 + 20*40 + 20
	offset := row * config.rowSize()

	output[offset+0] = 0 // (0 + 20) * 16 = 320
	output[offset+1] = 0
	output[offset+2] = float32(math.Log(100.0 / 16.0))
	output[offset+3] = float32(math.Log(100.0 / 16.0))
	output[offset+4] = 0.9
	output[offset+5] = 0.9 // class 0

	return output
}

func TestPipelineEndToEnd(t *testing.T) {
	config := DefaultConfig()
	pipeline := NewPipeline(config)

	// A 640x640 frame letterboxes with ratio exactly 1.0.
	img := createSolidImage(t, 640, 640, color.RGBA{114, 114, 114, 255})
	letterboxed, err := Letterbox(img, config)
	require.NoError(t, err)
	require.Equal(t, float32(1.0), letterboxed.Ratio)

	detections, err := pipeline.Postprocess(
		syntheticOutput(t, config), letterboxed.Ratio, letterboxed.Width, letterboxed.Height)
	require.NoError(t, err)
	require.Len(t, detections, 1, "exactly one row clears the threshold")

	d := detections[0]
	assert.Equal(t, 270, d.X1)
	assert.Equal(t, 270, d.Y1)
	assert.Equal(t, 370, d.X2)
	assert.Equal(t, 370, d.Y2)
	assert.Equal(t, 0, d.Class)
	assert.Equal(t, "person", d.Label)
	assert.InDelta(t, 0.81, d.Score, 1e-4)
}

func TestPipelineEmptyFrame(t *testing.T) {
	config := DefaultConfig()
	pipeline := NewPipeline(config)

	// All-zero output: every score is zero, nothing survives, and that
	// is a normal result.
	output := make([]float32, config.expectedRows()*config.rowSize())
	detections, err := pipeline.Postprocess(output, 1.0, 640, 640)
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestPipelineShapeError(t *testing.T) {
	pipeline := NewPipeline(nil)

	_, err := pipeline.Postprocess(make([]float32, 100), 1.0, 640, 640)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestPipelineDefaultsWhenNil(t *testing.T) {
	pipeline := NewPipeline(nil)
	config := pipeline.Config()

	assert.Equal(t, 640, config.InputWidth)
	assert.Equal(t, float32(0.3), config.ScoreThreshold)
	assert.Equal(t, float32(0.45), config.IoUThreshold)
	assert.Equal(t, []int{8, 16, 32}, config.Strides)
	assert.False(t, config.MultiLabel)
	assert.Equal(t, 80, config.NumClasses())
}

func TestPipelineRescalesByRatio(t *testing.T) {
	config := DefaultConfig()
	pipeline := NewPipeline(config)

	// A 1280x1280 source letterboxes at ratio 0.5; the same synthetic
	// box must land at doubled source coordinates.
	detections, err := pipeline.Postprocess(syntheticOutput(t, config), 0.5, 1280, 1280)
	require.NoError(t, err)
	require.Len(t, detections, 1)

	d := detections[0]
	assert.Equal(t, 540, d.X1)
	assert.Equal(t, 540, d.Y1)
	assert.Equal(t, 740, d.X2)
	assert.Equal(t, 740, d.Y2)
}

func TestPipelinePostprocessTensor(t *testing.T) {
	config := DefaultConfig()
	pipeline := NewPipeline(config)

	dense := tensor.New(
		tensor.WithShape(1, config.expectedRows(), config.rowSize()),
		tensor.WithBacking(syntheticOutput(t, config)),
	)

	detections, err := pipeline.PostprocessTensor(dense, 1.0, 640, 640)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, 270, detections[0].X1)
}

func BenchmarkPipelinePostprocess(b *testing.B) {
	config := DefaultConfig()
	pipeline := NewPipeline(config)
	output := syntheticOutput(b, config)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pipeline.Postprocess(output, 1.0, 640, 640); err != nil {
			b.Fatal(err)
		}
	}
}
