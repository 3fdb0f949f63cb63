// Package yolox - decodes, suppresses, and rescales raw YOLOX detection
// head outputs into final bounding boxes.
//
// The pipeline is four stages, each a pure call-scoped function:
// Letterbox -> Decode -> MulticlassNMS -> Rescale. Data flows strictly
// forward; no stage keeps state between calls.
package yolox

// Config defines the parameters shared by every pipeline stage.
type Config struct {
	// InputWidth is the model input width in pixels.
	InputWidth int
	// InputHeight is the model input height in pixels.
	InputHeight int
	// ScoreThreshold gates candidates before suppression. The score of a
	// candidate is objectness multiplied by its class score.
	ScoreThreshold float32
	// IoUThreshold is the overlap above which a lower-scored box of the
	// same class is suppressed.
	IoUThreshold float32
	// Strides are the feature map strides of the detection head, in the
	// order the model concatenates them.
	Strides []int
	// MultiLabel controls how class scores are read per row. When false
	// (the default) only the argmax class of a row can produce a
	// candidate. When true, every class whose combined score clears
	// ScoreThreshold produces its own candidate from the same box.
	MultiLabel bool
	// Classes maps class ids to labels. Ids outside the table are labeled
	// "unknown" rather than rejected.
	Classes []string
}

// DefaultConfig returns the standard YOLOX configuration: 640x640 input,
// score threshold 0.3, IoU threshold 0.45, strides 8/16/32, argmax class
// selection, and the 80 COCO classes.
//
// @example
// cfg := yolox.DefaultConfig()
// cfg.ScoreThreshold = 0.5
func DefaultConfig() *Config {
	return &Config{
		InputWidth:     640,
		InputHeight:    640,
		ScoreThreshold: 0.3,
		IoUThreshold:   0.45,
		Strides:        []int{8, 16, 32},
		MultiLabel:     false,
		Classes:        COCOClasses,
	}
}

// NumClasses returns the size of the class table.
func (c *Config) NumClasses() int {
	return len(c.Classes)
}

// rowSize is the number of floats per output row: 4 box parameters,
// objectness, and one score per class.
func (c *Config) rowSize() int {
	return 5 + c.NumClasses()
}

// expectedRows returns the total cell count over all stride grids.
func (c *Config) expectedRows() int {
	rows := 0
	for _, s := range c.Strides {
		rows += (c.InputWidth / s) * (c.InputHeight / s)
	}
	return rows
}
