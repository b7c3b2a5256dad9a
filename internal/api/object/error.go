package object

import (
	"net/http"

	"ProjectVision/pkg/response"
)

var (
	ErrModelNotReady = response.NewError(http.StatusServiceUnavailable, "Model is not ready or failed to load. Please try again later.")
)

// Caller-safe messages for failures reported inside a 200 payload.
const (
	MsgDetectionFailed = "Object detection failed."
	MsgUnexpectedError = "An unexpected error occurred during object detection."
)
