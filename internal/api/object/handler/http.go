package objectHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	objectService "ProjectVision/internal/api/object/service"
	"ProjectVision/internal/middleware"
	"ProjectVision/pkg/utils"
)

type ObjectHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	objectService objectService.IObjectService
	utils         utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	os objectService.IObjectService,
	utils utils.IUtils,
) *ObjectHandler {
	return &ObjectHandler{
		log:           log,
		validator:     validator,
		middleware:    middleware,
		objectService: os,
		utils:         utils,
	}
}

func (h *ObjectHandler) Start(srv fiber.Router) {
	srv.Get("/health", h.Health)
	srv.Post("/object", h.middleware.NewRateLimiter, h.DetectObjects)
}
