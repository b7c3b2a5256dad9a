package captionService

import (
	"errors"

	"golang.org/x/net/context"

	"ProjectVision/internal/api/caption"
	"ProjectVision/internal/entity"
	"ProjectVision/pkg/captionmodel"
	contextPkg "ProjectVision/pkg/context"
	"ProjectVision/pkg/log"
)

// GenerateCaption shapes the adapter outcome into a fresh result value: the
// mapping is total, so every failure becomes a populated Error field instead
// of an error return.
func (s *captionService) GenerateCaption(ctx context.Context, image []byte) *entity.CaptionResult {
	generated, err := s.captioner.Generate(ctx, image)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Caption generation failed")

		var genErr *captionmodel.GenerationError
		if errors.As(err, &genErr) {
			return &entity.CaptionResult{Error: caption.MsgGenerationFailed}
		}
		return &entity.CaptionResult{Error: caption.MsgUnexpectedError}
	}

	return &entity.CaptionResult{Caption: generated}
}

func (s *captionService) Ready() bool {
	return s.captioner.IsReady()
}

func (s *captionService) Status() string {
	return s.captioner.Status()
}
