package entity

// CaptionResult is the outcome of a caption generation run. A non-empty Error
// signals failure to the caller regardless of the Caption contents.
type CaptionResult struct {
	Caption string `json:"caption"`
	Error   string `json:"error,omitempty"`
}
