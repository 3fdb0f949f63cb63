// Package util - filesystem helpers for batch processing.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number parsed from a frame-N filename, or -1.
	Frame int
}

// LoadDirectoryImageFiles reads all image files from a directory.
//
// Files named frame-N.<ext> are ordered by frame number; everything else
// sorts lexically after them, so extracted video frames replay in capture
// order while arbitrary image dumps still process deterministically.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
			imgPath := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(imgPath)
			if readErr != nil {
				return nil, readErr
			}
			images = append(images, ImageFile{
				Path:  imgPath,
				Data:  data,
				Frame: parseFrameNumber(file.Name(), ext),
			})
		}
	}

	sort.Slice(images, func(i, j int) bool {
		a, b := images[i], images[j]
		if (a.Frame >= 0) != (b.Frame >= 0) {
			return a.Frame >= 0
		}
		if a.Frame >= 0 && a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Path < b.Path
	})

	return images, nil
}

// parseFrameNumber extracts N from a frame-N filename, returning -1 when
// the name does not follow the convention.
func parseFrameNumber(name, ext string) int {
	base := strings.TrimSuffix(name, ext)
	if !strings.HasPrefix(base, "frame-") {
		return -1
	}
	frame, err := strconv.Atoi(strings.TrimPrefix(base, "frame-"))
	if err != nil || frame < 0 {
		return -1
	}
	return frame
}
