package yolox

import "github.com/pkg/errors"

var (
	// ErrInvalidImage is returned when an input image is nil or has a zero
	// width or height. Match it with errors.Is; callers get it wrapped with
	// the offending dimensions.
	ErrInvalidImage = errors.New("invalid input image")

	// ErrShapeMismatch is returned when a raw model output does not match
	// the row count or row size implied by the configuration.
	ErrShapeMismatch = errors.New("output shape mismatch")
)
