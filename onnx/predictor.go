package onnx

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-yolox/yolox"
)

// Observer receives the final detections for a frame together with the
// source image. It is injected, never built in: the predictor itself
// writes nothing to disk. See images.SaveAnnotated for the debug
// annotation writer.
type Observer func(img image.Image, detections []yolox.Detection)

// ortEnvOnce guards ONNX Runtime environment initialization, which must
// happen exactly once per process.
var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

func initEnvironment(libraryPath string) error {
	ortEnvOnce.Do(func() {
		ort.SetSharedLibraryPath(libraryPath)
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Predictor owns an ONNX Runtime session for one YOLOX model and runs the
// full detect path: letterbox, inference, postprocess.
type Predictor struct {
	config   Config
	pipeline *yolox.Pipeline

	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	observer Observer

	// The session reuses its input and output tensors between runs, so
	// Detect is serialized.
	mu sync.Mutex
}

// NewPredictor loads a YOLOX model and prepares a reusable session with
// preallocated input and output tensors.
//
// Arguments:
// - config: Predictor configuration. Zero fields take YOLOX defaults.
//
// Returns:
// - A ready predictor. Close it when done.
// - An error when the runtime library or the model cannot be loaded.
//
// @example
// predictor, err := onnx.NewPredictor(onnx.Config{ModelPath: "yolox_s.onnx"})
//
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// defer predictor.Close()
func NewPredictor(config Config) (*Predictor, error) {
	config = config.withDefaults()

	if err := initEnvironment(config.LibraryPath); err != nil {
		return nil, errors.Wrap(err, "failed to initialize onnxruntime environment")
	}

	pipelineConfig := yolox.DefaultConfig()
	pipelineConfig.InputWidth = config.InputSize
	pipelineConfig.InputHeight = config.InputSize
	pipelineConfig.ScoreThreshold = config.ScoreThreshold
	pipelineConfig.IoUThreshold = config.NMSThreshold
	pipelineConfig.MultiLabel = config.MultiLabel
	if len(config.Classes) > 0 {
		pipelineConfig.Classes = config.Classes
	}
	pipeline := yolox.NewPipeline(pipelineConfig)

	size := int64(config.InputSize)
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}

	rows := 0
	for _, s := range pipelineConfig.Strides {
		rows += (config.InputSize / s) * (config.InputSize / s)
	}
	rowSize := int64(5 + pipelineConfig.NumClasses())
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(rows), rowSize))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "failed to create output tensor")
	}

	session, err := ort.NewAdvancedSession(config.ModelPath,
		[]string{config.InputName}, []string{config.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor}, nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrapf(err, "failed to load model %s", config.ModelPath)
	}

	return &Predictor{
		config:       config,
		pipeline:     pipeline,
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// SetObserver installs a callback invoked with every frame's final
// detections. A nil observer disables the callback.
func (p *Predictor) SetObserver(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = observer
}

// Config returns the predictor configuration after defaulting.
func (p *Predictor) Config() Config {
	return p.config
}

// Detect runs the full pipeline on one image: letterbox to the model
// input, run the session, postprocess the head output, and hand the
// detections to the observer if one is set.
//
// Arguments:
// - img: The source frame.
//
// Returns:
// - Final detections in source coordinates. An empty slice means a clean
//   frame, not a failure.
// - An error when preprocessing, inference, or postprocessing fails.
func (p *Predictor) Detect(img image.Image) ([]yolox.Detection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	letterboxed, err := yolox.Letterbox(img, p.pipeline.Config())
	if err != nil {
		return nil, errors.Wrap(err, "preprocessing failed")
	}

	copy(p.inputTensor.GetData(), letterboxed.Data)

	if err := p.session.Run(); err != nil {
		return nil, errors.Wrap(err, "inference failed")
	}

	detections, err := p.pipeline.Postprocess(
		p.outputTensor.GetData(), letterboxed.Ratio, letterboxed.Width, letterboxed.Height)
	if err != nil {
		return nil, errors.Wrap(err, "postprocessing failed")
	}

	if p.observer != nil {
		p.observer(img, detections)
	}

	return detections, nil
}

// Close releases the session and its tensors.
func (p *Predictor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}
	if p.inputTensor != nil {
		p.inputTensor.Destroy()
		p.inputTensor = nil
	}
	if p.outputTensor != nil {
		p.outputTensor.Destroy()
		p.outputTensor = nil
	}
}
