package captionService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectVision/internal/entity"
	"ProjectVision/pkg/captionmodel"
)

type ICaptionService interface {
	GenerateCaption(ctx context.Context, image []byte) *entity.CaptionResult
	Ready() bool
	Status() string
}

type captionService struct {
	log       *logrus.Logger
	captioner captionmodel.Captioner
}

func NewCaptionService(log *logrus.Logger, captioner captionmodel.Captioner) ICaptionService {
	return &captionService{
		log:       log,
		captioner: captioner,
	}
}
