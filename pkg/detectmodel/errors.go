package detectmodel

import "fmt"

// DetectionError wraps any failure during decode, inference or shaping.
type DetectionError struct {
	Cause error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("object detection failed: %v", e.Cause)
}

func (e *DetectionError) Unwrap() error {
	return e.Cause
}
