package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/chai2010/webp"
	"github.com/cshum/vipsgen/vips"
)

// DecodeJPEG decodes a JPEG []byte into a Go-native image.Image through
// libvips.
//
// Arguments:
//   - jpegBytes: The JPEG []byte to decode.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the image fails to decode.
func DecodeJPEG(jpegBytes []byte) (image.Image, error) {
	// Load the image from buffer.
	img, err := vips.NewImageFromBuffer(jpegBytes, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	defer img.Close()

	// Export to JPEG buffer.
	normalized, err := img.JpegsaveBuffer(&vips.JpegsaveBufferOptions{})
	if err != nil || len(normalized) == 0 {
		return nil, fmt.Errorf("failed to encode image")
	}

	// Decode into image.Image.
	decoded, err := jpeg.Decode(bytes.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to decode JPEG: %w", err)
	}

	return decoded, nil
}

// DecodePNG decodes a PNG []byte into a Go-native image.Image through
// libvips.
func DecodePNG(pngBytes []byte) (image.Image, error) {
	// Load the image from buffer.
	img, err := vips.NewImageFromBuffer(pngBytes, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	defer img.Close()

	// Export to PNG buffer.
	normalized, err := img.PngsaveBuffer(&vips.PngsaveBufferOptions{})
	if err != nil || len(normalized) == 0 {
		return nil, fmt.Errorf("failed to encode image")
	}

	// Decode into image.Image.
	decoded, err := png.Decode(bytes.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	return decoded, nil
}

// DecodeWebP decodes a WebP []byte into a Go-native image.Image.
func DecodeWebP(webpBytes []byte) (image.Image, error) {
	decoded, err := webp.Decode(bytes.NewReader(webpBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode WebP: %w", err)
	}
	return decoded, nil
}

// DecodeImage provides a unified interface to decode encoded images of
// different formats into image.Image, suitable for preprocessing.
//
// Arguments:
//   - data: The encoded image bytes. The format is sniffed from the
//     leading bytes.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error when the data is empty or the format unsupported.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	switch DetectFormat(data) {
	case FormatJPEG:
		return DecodeJPEG(data)
	case FormatPNG:
		return DecodePNG(data)
	case FormatWebP:
		return DecodeWebP(data)
	default:
		return nil, fmt.Errorf("unsupported image format")
	}
}

// DecodeImageFile reads and decodes an image file from disk.
func DecodeImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeImage(data)
}
