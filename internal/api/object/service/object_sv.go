package objectService

import (
	"errors"

	"golang.org/x/net/context"

	"ProjectVision/internal/api/object"
	"ProjectVision/internal/entity"
	contextPkg "ProjectVision/pkg/context"
	"ProjectVision/pkg/detectmodel"
	"ProjectVision/pkg/log"
)

// DetectObjects shapes the adapter outcome without mutating it: detections
// pass through in model order, failures become a populated Error field. Zero
// detections is a successful empty result.
func (s *objectService) DetectObjects(ctx context.Context, image []byte) *DetectionOutcome {
	detections, err := s.detector.Detect(ctx, image)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Object detection failed")

		var detErr *detectmodel.DetectionError
		if errors.As(err, &detErr) {
			return &DetectionOutcome{Objects: []entity.Detection{}, Error: object.MsgDetectionFailed}
		}
		return &DetectionOutcome{Objects: []entity.Detection{}, Error: object.MsgUnexpectedError}
	}

	if detections == nil {
		detections = []entity.Detection{}
	}
	return &DetectionOutcome{Objects: detections}
}

func (s *objectService) Ready() bool {
	return s.detector.IsReady()
}

func (s *objectService) Status() string {
	return s.detector.Status()
}
