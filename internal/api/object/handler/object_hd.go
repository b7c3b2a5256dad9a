package objectHandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"ProjectVision/internal/api/object"
	contextPkg "ProjectVision/pkg/context"
	"ProjectVision/pkg/handlerUtil"
	"ProjectVision/pkg/log"
)

func (h *ObjectHandler) Health(ctx *fiber.Ctx) error {
	status := h.objectService.Status()

	h.log.WithFields(log.Fields{
		"path":   ctx.Path(),
		"status": status,
	}).Debug("Health check requested")

	return ctx.Status(fiber.StatusOK).JSON(object.HealthResponse{Status: status})
}

func (h *ObjectHandler) DetectObjects(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing object detection request")

	var imageBytes []byte
	var filename string

	file, err := ctx.FormFile("file")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
		}

		fileContent, err := file.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
		}
		defer fileContent.Close()

		imageBytes, err = h.utils.ReadFileBytes(fileContent)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
		}
		filename = file.Filename
	} else {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Debug("Processing JSON request")

		var req object.UploadRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		imageBytes, err = h.utils.DecodeBase64Image(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_base64")
		}
		filename = req.Filename
	}

	if !h.objectService.Ready() {
		return errHandler.Handle(ctx, requestID, object.ErrModelNotReady, ctx.Path(), "readiness_check")
	}

	result := h.objectService.DetectObjects(c, imageBytes)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		resp := object.DetectionResponse{
			Filename: filename,
			Objects:  result.Objects,
		}
		if result.Error != "" {
			resp.Error = &result.Error
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"path":       ctx.Path(),
				"file_name":  filename,
			}).Warn("Detection request completed with error payload")
		} else {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"path":       ctx.Path(),
				"file_name":  filename,
				"objects":    len(result.Objects),
			}).Info("Object detection successful")
		}
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
