package yolox

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// smallConfig is a hand-checkable configuration: one 2x2 grid at stride
// 4, two classes, seven floats per row.
func smallConfig() *Config {
	return &Config{
		InputWidth:     8,
		InputHeight:    8,
		ScoreThreshold: 0.3,
		IoUThreshold:   0.45,
		Strides:        []int{4},
		Classes:        []string{"cat", "dog"},
	}
}

func TestDecodeRowCount(t *testing.T) {
	config := DefaultConfig()

	// Strides 8/16/32 over 640x640 produce 6400 + 1600 + 400 rows.
	expected := 80*80 + 40*40 + 20*20
	assert.Equal(t, expected, config.expectedRows())

	output := make([]float32, expected*config.rowSize())
	candidates, err := Decode(output, config)
	require.NoError(t, err)
	assert.Len(t, candidates, expected, "decode must produce one candidate per row")
}

func TestDecodeShapeMismatch(t *testing.T) {
	config := smallConfig()

	tests := []struct {
		name   string
		length int
	}{
		{name: "not divisible by row size", length: 10},
		{name: "too few rows", length: 3 * config.rowSize()},
		{name: "too many rows", length: 5 * config.rowSize()},
		{name: "empty output", length: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := Decode(make([]float32, tt.length), config)
			assert.Nil(t, candidates)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrShapeMismatch), "expected ErrShapeMismatch, got %v", err)
		})
	}
}

func TestDecodeGridMath(t *testing.T) {
	config := smallConfig()
	rowSize := config.rowSize()
	output := make([]float32, 4*rowSize)

	// Row 0 is cell (0,0): raw center offsets 0.5 put the center in the
	// middle of the cell; raw sizes 0 give exp(0)*stride = 4.
	output[0] = 0.5
	output[1] = 0.5
	// Row 3 is cell (1,1) with zero offsets: center (4, 4).
	copy(output[3*rowSize:], []float32{0, 0, 0, 0, 0.7, 0.1, 0.2})

	candidates, err := Decode(output, config)
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	first := candidates[0]
	assert.InDelta(t, 0.0, first.Box.X1, 1e-5)
	assert.InDelta(t, 0.0, first.Box.Y1, 1e-5)
	assert.InDelta(t, 4.0, first.Box.X2, 1e-5)
	assert.InDelta(t, 4.0, first.Box.Y2, 1e-5)

	last := candidates[3]
	assert.InDelta(t, 2.0, last.Box.X1, 1e-5)
	assert.InDelta(t, 6.0, last.Box.X2, 1e-5)
	assert.InDelta(t, float32(0.7), last.Objectness, 1e-6)
	assert.Equal(t, []float32{0.1, 0.2}, last.ClassScores)

	// Row order is preserved.
	for i, c := range candidates {
		assert.Equal(t, i, c.Row, "candidate %d must carry its source row", i)
	}
}

func TestDecodeSizeIsExponential(t *testing.T) {
	config := smallConfig()
	output := make([]float32, 4*config.rowSize())

	// raw_w = ln(2) doubles the stride-sized box.
	output[2] = float32(math.Log(2))

	candidates, err := Decode(output, config)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, candidates[0].Box.Width(), 1e-4, "width must be exp(raw_w)*stride")
	assert.InDelta(t, 4.0, candidates[0].Box.Height(), 1e-4)
}

func TestDecodeTensor(t *testing.T) {
	config := smallConfig()
	rowSize := config.rowSize()

	t.Run("batched shape", func(t *testing.T) {
		dense := tensor.New(
			tensor.WithShape(1, 4, rowSize),
			tensor.WithBacking(make([]float32, 4*rowSize)),
		)
		candidates, err := DecodeTensor(dense, config)
		require.NoError(t, err)
		assert.Len(t, candidates, 4)
	})

	t.Run("unbatched shape", func(t *testing.T) {
		dense := tensor.New(
			tensor.WithShape(4, rowSize),
			tensor.WithBacking(make([]float32, 4*rowSize)),
		)
		candidates, err := DecodeTensor(dense, config)
		require.NoError(t, err)
		assert.Len(t, candidates, 4)
	})

	t.Run("wrong row size", func(t *testing.T) {
		dense := tensor.New(
			tensor.WithShape(4, rowSize+1),
			tensor.WithBacking(make([]float32, 4*(rowSize+1))),
		)
		_, err := DecodeTensor(dense, config)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	})

	t.Run("wrong dtype", func(t *testing.T) {
		dense := tensor.New(
			tensor.WithShape(4, rowSize),
			tensor.WithBacking(make([]float64, 4*rowSize)),
		)
		_, err := DecodeTensor(dense, config)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	})
}

func BenchmarkDecode(b *testing.B) {
	config := DefaultConfig()
	output := make([]float32, config.expectedRows()*config.rowSize())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(output, config); err != nil {
			b.Fatal(err)
		}
	}
}
