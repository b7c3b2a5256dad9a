package object

import (
	"ProjectVision/internal/entity"
)

type UploadRequest struct {
	Filename    string `json:"filename"`
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type DetectionResponse struct {
	Filename string             `json:"filename"`
	Objects  []entity.Detection `json:"objects"`
	Error    *string            `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
