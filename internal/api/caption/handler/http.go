package captionHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	captionService "ProjectVision/internal/api/caption/service"
	"ProjectVision/internal/middleware"
	"ProjectVision/pkg/utils"
)

type CaptionHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	captionService captionService.ICaptionService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs captionService.ICaptionService,
	utils utils.IUtils,
) *CaptionHandler {
	return &CaptionHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		captionService: cs,
		utils:          utils,
	}
}

func (h *CaptionHandler) Start(srv fiber.Router) {
	srv.Get("/health", h.Health)
	srv.Post("/caption", h.middleware.NewRateLimiter, h.CreateCaption)
}
