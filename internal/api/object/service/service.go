package objectService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectVision/internal/entity"
	"ProjectVision/pkg/detectmodel"
)

// DetectionOutcome is the shaped result for one request; a non-empty Error
// is the authoritative failure signal.
type DetectionOutcome struct {
	Objects []entity.Detection
	Error   string
}

type IObjectService interface {
	DetectObjects(ctx context.Context, image []byte) *DetectionOutcome
	Ready() bool
	Status() string
}

type objectService struct {
	log      *logrus.Logger
	detector detectmodel.Detector
}

func NewObjectService(log *logrus.Logger, detector detectmodel.Detector) IObjectService {
	return &objectService{
		log:      log,
		detector: detector,
	}
}
