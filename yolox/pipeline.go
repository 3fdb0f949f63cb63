package yolox

import (
	"gorgonia.org/tensor"
)

// Pipeline composes the postprocessing stages behind a single call. It is
// stateless beyond its configuration and safe for concurrent use.
type Pipeline struct {
	config *Config
}

// NewPipeline creates a pipeline from the given configuration. A nil
// configuration selects DefaultConfig.
//
// @example
// p := yolox.NewPipeline(nil)
// detections, err := p.Postprocess(output, result.Ratio, result.Width, result.Height)
func NewPipeline(config *Config) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pipeline{config: config}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *Config {
	return p.config
}

// Postprocess turns a raw head output into final detections for one
// frame: Decode -> MulticlassNMS -> Rescale. All buffers are allocated
// per call; the pipeline holds no mutable state between frames.
//
// Arguments:
// - output: The flat head output for a single image.
// - ratio: The letterbox ratio returned for that image.
// - width: Source image width in pixels.
// - height: Source image height in pixels.
//
// Returns:
// - The final detections, possibly empty. An empty frame is a normal
//   outcome, never an error.
// - An error wrapping ErrShapeMismatch when the output does not fit the
//   configured grids.
func (p *Pipeline) Postprocess(output []float32, ratio float32, width, height int) ([]Detection, error) {
	candidates, err := Decode(output, p.config)
	if err != nil {
		return nil, err
	}

	results := MulticlassNMS(candidates, p.config)
	return Rescale(results, ratio, width, height, p.config.Classes), nil
}

// PostprocessTensor is Postprocess for a head output delivered as a dense
// tensor, validated by DecodeTensor.
func (p *Pipeline) PostprocessTensor(t *tensor.Dense, ratio float32, width, height int) ([]Detection, error) {
	candidates, err := DecodeTensor(t, p.config)
	if err != nil {
		return nil, err
	}

	results := MulticlassNMS(candidates, p.config)
	return Rescale(results, ratio, width, height, p.config.Classes), nil
}
