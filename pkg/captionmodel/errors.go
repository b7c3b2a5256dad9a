package captionmodel

import "fmt"

// GenerationError wraps any failure between decoding the upload and
// detokenizing the output.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("caption generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
