// Package onnx - runs YOLOX models through ONNX Runtime and feeds their
// output through the postprocessing pipeline.
package onnx

// Config for the YOLOX ONNX predictor.
type Config struct {
	// ModelPath is the path to the YOLOX .onnx file.
	ModelPath string
	// InputSize is the square model input size in pixels (default 640).
	InputSize int
	// ScoreThreshold gates candidates before suppression (default 0.3).
	ScoreThreshold float32
	// NMSThreshold is the suppression IoU threshold (default 0.45).
	NMSThreshold float32
	// MultiLabel lets one output row produce one candidate per class
	// clearing the score threshold instead of argmax only.
	MultiLabel bool
	// Classes overrides the class table; empty selects the 80 COCO
	// classes.
	Classes []string
	// LibraryPath overrides the onnxruntime shared library location.
	// Empty resolves a platform default under third_party/.
	LibraryPath string
	// InputName and OutputName are the model graph tensor names.
	// Defaults are "images" and "output", the names the YOLOX export
	// script emits.
	InputName  string
	OutputName string
}

// withDefaults fills unset fields with the standard YOLOX values.
func (c Config) withDefaults() Config {
	if c.InputSize == 0 {
		c.InputSize = 640
	}
	if c.ScoreThreshold == 0 {
		c.ScoreThreshold = 0.3
	}
	if c.NMSThreshold == 0 {
		c.NMSThreshold = 0.45
	}
	if c.InputName == "" {
		c.InputName = "images"
	}
	if c.OutputName == "" {
		c.OutputName = "output"
	}
	if c.LibraryPath == "" {
		c.LibraryPath = getSharedLibPath()
	}
	return c
}
