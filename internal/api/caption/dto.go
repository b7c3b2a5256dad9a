package caption

type UploadRequest struct {
	Filename    string `json:"filename"`
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type CaptionResponse struct {
	Filename string  `json:"filename"`
	Caption  string  `json:"caption"`
	Error    *string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
