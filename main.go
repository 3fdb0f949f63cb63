package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/onnx"
	"github.com/nvr-ai/go-yolox/util"
	"github.com/nvr-ai/go-yolox/yolox"
)

const (
	// DefaultModelPath is the YOLOX model loaded when no flag is given.
	DefaultModelPath = "yolox_s.onnx"
	// DefaultOutputDir receives annotated frames when saving is enabled.
	DefaultOutputDir = "annotated_frames"
)

func main() {
	var (
		modelPath       string
		imagePath       string
		dirPath         string
		scoreThreshold  float64
		nmsThreshold    float64
		inputSize       int
		multiLabel      bool
		saveAnnotations bool
		outputDir       string
	)
	flag.StringVar(&modelPath, "model", DefaultModelPath, "Path to YOLOX ONNX model file")
	flag.StringVar(&imagePath, "image", "", "Path to a single image file (.jpg, .jpeg, .png, .webp)")
	flag.StringVar(&dirPath, "dir", "", "Path to a directory of image files")
	flag.Float64Var(&scoreThreshold, "score-threshold", 0.3, "Detection score threshold")
	flag.Float64Var(&nmsThreshold, "nms-threshold", 0.45, "NMS IoU threshold")
	flag.IntVar(&inputSize, "input-size", 640, "Model input size in pixels")
	flag.BoolVar(&multiLabel, "multi-label", false, "Emit one detection per class above the threshold instead of argmax only")
	flag.BoolVar(&saveAnnotations, "save-annotations", false, "Save annotated copies of processed images")
	flag.StringVar(&outputDir, "output-dir", DefaultOutputDir, "Output directory for annotated images")
	flag.Parse()

	if (imagePath == "") == (dirPath == "") {
		log.Fatal("specify exactly one of -image or -dir")
	}

	predictor, err := onnx.NewPredictor(onnx.Config{
		ModelPath:      modelPath,
		InputSize:      inputSize,
		ScoreThreshold: float32(scoreThreshold),
		NMSThreshold:   float32(nmsThreshold),
		MultiLabel:     multiLabel,
	})
	if err != nil {
		log.Fatalf("failed to initialize predictor: %v", err)
	}
	defer predictor.Close()

	fmt.Printf("\n🚀 YOLOX Detection Started\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("⚙️  Configuration:\n")
	fmt.Printf("   🎯 Model: %s\n", modelPath)
	fmt.Printf("   📐 Input size: %dx%d\n", inputSize, inputSize)
	fmt.Printf("   📊 Score threshold: %.2f\n", scoreThreshold)
	fmt.Printf("   📊 NMS threshold: %.2f\n", nmsThreshold)
	fmt.Printf("   🏷️  Multi-label: %t\n", multiLabel)
	if saveAnnotations {
		fmt.Printf("   💾 Annotated output: %s\n", outputDir)
	}
	fmt.Printf("=====================================\n\n")

	if saveAnnotations {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
	}

	if imagePath != "" {
		processFile(predictor, imagePath, saveAnnotations, outputDir)
		return
	}

	files, err := util.LoadDirectoryImageFiles(dirPath)
	if err != nil {
		log.Fatalf("failed to read directory %s: %v", dirPath, err)
	}
	if len(files) == 0 {
		fmt.Printf("⚠️  No image files found in %s\n", dirPath)
		return
	}

	for _, file := range files {
		img, err := images.DecodeImage(file.Data)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", file.Path, err)
			continue
		}
		detect(predictor, img, file.Path, saveAnnotations, outputDir)
	}
}

// processFile runs detection on a single image file.
func processFile(predictor *onnx.Predictor, path string, save bool, outputDir string) {
	img, err := images.DecodeImageFile(path)
	if err != nil {
		log.Fatalf("failed to decode %s: %v", path, err)
	}
	detect(predictor, img, path, save, outputDir)
}

// detect runs one frame through the predictor and reports the result.
func detect(predictor *onnx.Predictor, img image.Image, path string, save bool, outputDir string) {
	if save {
		outputPath := filepath.Join(outputDir, "annotated_"+filepath.Base(path))
		predictor.SetObserver(func(frame image.Image, detections []yolox.Detection) {
			annotations := make([]images.Annotation, 0, len(detections))
			for _, d := range detections {
				annotations = append(annotations, images.Annotation{
					Rect:  d.ToRect(),
					Label: d.Label,
					Score: d.Score,
				})
			}
			if err := images.SaveAnnotated(outputPath, frame, annotations); err != nil {
				fmt.Printf("❌ Failed to save annotated image: %v\n", err)
			} else {
				fmt.Printf("💾 Saved annotated image to %s\n", outputPath)
			}
		})
		defer predictor.SetObserver(nil)
	}

	start := time.Now()
	detections, err := predictor.Detect(img)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", path, err)
		return
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	fmt.Printf("[%s] %d objects | %.2fms\n", filepath.Base(path), len(detections), elapsed)
	for i, d := range detections {
		fmt.Printf("   %d: %s\n", i+1, d.String())
	}
}
