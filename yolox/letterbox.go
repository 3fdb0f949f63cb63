package yolox

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// letterboxPad is the gray value used for every channel of the padded
// region. YOLOX models are trained against this exact fill.
const letterboxPad = 114

// LetterboxResult holds the preprocessed tensor and the metadata the
// rescaler needs to map boxes back to the source frame.
type LetterboxResult struct {
	// Data is the CHW float32 tensor, BGR channel order, raw 0-255 values.
	// Length is 3 * InputHeight * InputWidth.
	Data []float32
	// Ratio is the single uniform scale applied to both axes. The same
	// scalar always applies to x and y; letterboxing is never anisotropic.
	Ratio float32
	// Width is the source image width before preprocessing.
	Width int
	// Height is the source image height before preprocessing.
	Height int
}

// Letterbox scales an image into the model input canvas while preserving
// its aspect ratio.
//
// The scale is ratio = min(InputWidth/W, InputHeight/H). The content is
// resized to round(W*ratio) x round(H*ratio) with bilinear interpolation
// and placed at the top-left of the canvas; the remainder is padded with
// 114 per channel. Anchoring at the top-left means the rescaler only has
// to divide by the ratio, with no translation offset.
//
// Arguments:
// - img: The source image. Must have non-zero width and height.
// - config: Pipeline configuration (input dimensions).
//
// Returns:
// - The letterboxed tensor with its ratio and source dimensions.
// - An error wrapping ErrInvalidImage when the image is nil or empty.
//
// @example
// result, err := yolox.Letterbox(img, yolox.DefaultConfig())
//
//	if err != nil {
//	    return err
//	}
//
// tensor, ratio := result.Data, result.Ratio
func Letterbox(img image.Image, config *Config) (*LetterboxResult, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidImage, "nil image")
	}

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return nil, errors.Wrapf(ErrInvalidImage, "empty dimensions %dx%d", srcWidth, srcHeight)
	}

	ratio := float32(math.Min(
		float64(config.InputWidth)/float64(srcWidth),
		float64(config.InputHeight)/float64(srcHeight),
	))

	newWidth := int(math.Round(float64(srcWidth) * float64(ratio)))
	newHeight := int(math.Round(float64(srcHeight) * float64(ratio)))

	resized := resize.Resize(uint(newWidth), uint(newHeight), img, resize.Bilinear)

	// Fill the canvas with the pad gray, then draw the content into the
	// top-left corner.
	canvas := image.NewRGBA(image.Rect(0, 0, config.InputWidth, config.InputHeight))
	pad := color.RGBA{letterboxPad, letterboxPad, letterboxPad, 255}
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{pad}, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, newWidth, newHeight), resized, image.Point{}, draw.Src)

	return &LetterboxResult{
		Data:   imageToTensor(canvas, config.InputWidth, config.InputHeight),
		Ratio:  ratio,
		Width:  srcWidth,
		Height: srcHeight,
	}, nil
}

// imageToTensor flattens an RGBA canvas into a CHW float32 tensor in BGR
// channel order with raw 0-255 values. YOLOX applies no mean/std
// normalization.
func imageToTensor(canvas *image.RGBA, width, height int) []float32 {
	data := make([]float32, 3*height*width)
	plane := height * width

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := canvas.PixOffset(x, y)
			// Read the raw pixel bytes directly; the canvas is always
			// opaque RGBA.
			r := canvas.Pix[idx+0]
			g := canvas.Pix[idx+1]
			b := canvas.Pix[idx+2]

			data[0*plane+y*width+x] = float32(b)
			data[1*plane+y*width+x] = float32(g)
			data[2*plane+y*width+x] = float32(r)
		}
	}

	return data
}
