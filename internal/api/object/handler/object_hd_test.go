package objectHandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"ProjectVision/internal/api/object"
	objectService "ProjectVision/internal/api/object/service"
	"ProjectVision/internal/config"
	"ProjectVision/internal/entity"
	"ProjectVision/internal/middleware"
	"ProjectVision/pkg/detectmodel"
	"ProjectVision/pkg/log"
	"ProjectVision/pkg/utils"
)

type stubDetector struct {
	ready      bool
	status     string
	detections []entity.Detection
	err        error
	calls      int
}

func (s *stubDetector) Load() error    { return nil }
func (s *stubDetector) IsReady() bool  { return s.ready }
func (s *stubDetector) Status() string { return s.status }

func (s *stubDetector) Detect(ctx context.Context, image []byte) ([]entity.Detection, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.detections, nil
}

func newObjectApp(t *testing.T, stub *stubDetector) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	logger := log.NewLogger()
	mw := middleware.New(logger)
	svc := objectService.NewObjectService(logger, stub)
	handler := New(logger, config.NewValidator(), mw, svc, utils.New())

	app := config.NewFiber("object-test", logger)
	app.Use(mw.NewRequestIDMiddleware())
	handler.Start(app)
	return app
}

func newUpload(t *testing.T, contentType string, data []byte) (*http.Request, error) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, "scene.jpg"))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/object", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req, nil
}

func TestHealth_ObjectService(t *testing.T) {
	app := newObjectApp(t, &stubDetector{status: "model_not_loaded"})

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health object.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "model_not_loaded", health.Status)
}

func TestDetectObjects_ModelNotReady(t *testing.T) {
	stub := &stubDetector{ready: false, status: "model_loading_failed"}
	app := newObjectApp(t, stub)

	req, err := newUpload(t, "image/jpeg", []byte("fake jpeg"))
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Zero(t, stub.calls)
}

func TestDetectObjects_RejectsNonImageUpload(t *testing.T) {
	stub := &stubDetector{ready: true}
	app := newObjectApp(t, stub)

	req, err := newUpload(t, "text/plain", []byte("hello"))
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, stub.calls)
}

func TestDetectObjects_Success(t *testing.T) {
	stub := &stubDetector{
		ready:  true,
		status: "ready",
		detections: []entity.Detection{
			{Label: "person", Score: 0.98, Box: []int{10, 20, 110, 220}},
			{Label: "dog", Score: 0.6543, Box: []int{30, 40, 90, 100}},
		},
	}
	app := newObjectApp(t, stub)

	req, err := newUpload(t, "image/jpeg", []byte("fake jpeg"))
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out object.DetectionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "scene.jpg", out.Filename)
	require.Nil(t, out.Error)
	require.Len(t, out.Objects, 2)
	require.Equal(t, "person", out.Objects[0].Label)
	require.Equal(t, []int{30, 40, 90, 100}, out.Objects[1].Box)
}

func TestDetectObjects_EmptySceneIsNotAnError(t *testing.T) {
	stub := &stubDetector{ready: true, status: "ready", detections: nil}
	app := newObjectApp(t, stub)

	req, err := newUpload(t, "image/png", []byte("fake png"))
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// the wire shape matters here: an empty array and a null error, never null objects
	require.Contains(t, string(raw), `"objects":[]`)
	require.Contains(t, string(raw), `"error":null`)
}

func TestDetectObjects_DetectionFailureStays200(t *testing.T) {
	stub := &stubDetector{
		ready:  true,
		status: "ready",
		err:    &detectmodel.DetectionError{Cause: fmt.Errorf("session run failed")},
	}
	app := newObjectApp(t, stub)

	req, err := newUpload(t, "image/jpeg", []byte("fake jpeg"))
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out object.DetectionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Error)
	require.Equal(t, object.MsgDetectionFailed, *out.Error)
	require.NotNil(t, out.Objects)
	require.Empty(t, out.Objects)
}
