package images

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Annotation is one labeled box to draw onto a frame.
type Annotation struct {
	// Rect is the box in source image coordinates.
	Rect image.Rectangle
	// Label is the class label drawn above the box.
	Label string
	// Score is appended to the label.
	Score float32
}

// AnnotateMat draws detection boxes and labels onto a BGR Mat in place.
//
// Arguments:
// - mat: The frame to draw on.
// - annotations: The boxes to draw.
func AnnotateMat(mat *gocv.Mat, annotations []Annotation) {
	green := color.RGBA{0, 255, 0, 0}
	for _, a := range annotations {
		gocv.Rectangle(mat, a.Rect, green, 2)
		label := fmt.Sprintf("%s %.2f", a.Label, a.Score)
		gocv.PutText(mat, label, a.Rect.Min, gocv.FontHersheyPlain, 0.8, green, 2)
	}
}

// SaveAnnotated writes a copy of the image with detection boxes drawn on
// it. Used as the debug observer of the predictor; the pipeline itself
// never writes files.
//
// Arguments:
// - path: Destination file path; the extension selects the encoder.
// - img: The source frame.
// - annotations: The boxes to draw.
//
// Returns:
// - An error when the frame cannot be converted or written.
//
// @example
// err := images.SaveAnnotated("debug_annotation_result.jpg", img, annotations)
func SaveAnnotated(path string, img image.Image, annotations []Annotation) error {
	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer rgb.Close()

	// IMWrite expects BGR channel order. The RGB/BGR swap is symmetric,
	// so the BGR-named code performs it in either direction.
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgb, &bgr, gocv.ColorBGRToRGB)

	AnnotateMat(&bgr, annotations)

	if ok := gocv.IMWrite(path, bgr); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
