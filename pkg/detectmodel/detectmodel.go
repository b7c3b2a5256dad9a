// Package detectmodel runs a single-shot object detection model exported to
// ONNX with non-maximum suppression baked in: each output row is one
// candidate box with a confidence score and class index.
package detectmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/net/context"

	"ProjectVision/internal/entity"
	"ProjectVision/pkg/imaging"
	"ProjectVision/pkg/onnxrt"
	"ProjectVision/pkg/registry"
)

type Detector interface {
	Load() error
	IsReady() bool
	Status() string
	Detect(ctx context.Context, image []byte) ([]entity.Detection, error)
}

type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Classes     []string `json:"classes"`
}

func (m *Metadata) applyDefaults() {
	if len(m.InputShape) == 0 {
		m.InputShape = []int64{1, 3, 640, 640}
	}
	if len(m.OutputShape) == 0 {
		m.OutputShape = []int64{1, 300, 6}
	}
	if m.InputName == "" {
		m.InputName = "images"
	}
	if m.OutputName == "" {
		m.OutputName = "output0"
	}
	if len(m.Classes) == 0 {
		m.Classes = cocoClasses
	}
}

type Model struct {
	log      *logrus.Logger
	registry *registry.Registry
	dir      string
	device   string

	meta         *Metadata
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	// The session reuses preallocated tensors, so runs are serialized.
	mu sync.Mutex
}

func New(log *logrus.Logger, dir string, device string) *Model {
	return &Model{
		log:      log,
		registry: registry.New(),
		dir:      dir,
		device:   device,
	}
}

// Load short-circuits when already ready; on failure every handle is released
// before the registry is marked failed.
func (m *Model) Load() error {
	if m.registry.IsReady() {
		m.log.Info("Detection model already loaded")
		return nil
	}
	m.registry.SetLoading()

	if err := m.load(); err != nil {
		m.release()
		m.registry.Fail(err)
		return err
	}

	m.registry.SetReady()
	m.log.Infof("Detection model loaded from %s (%d classes)", m.dir, len(m.meta.Classes))
	return nil
}

func (m *Model) load() error {
	if err := onnxrt.Initialize(); err != nil {
		return err
	}

	metaBytes, err := os.ReadFile(filepath.Join(m.dir, "metadata.json"))
	if err != nil {
		return fmt.Errorf("failed to read model metadata: %w", err)
	}

	meta := &Metadata{}
	if err := json.Unmarshal(metaBytes, meta); err != nil {
		return fmt.Errorf("failed to parse model metadata: %w", err)
	}
	meta.applyDefaults()
	m.meta = meta

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return fmt.Errorf("failed to create input tensor: %w", err)
	}
	m.inputTensor = inputTensor

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		return fmt.Errorf("failed to create output tensor: %w", err)
	}
	m.outputTensor = outputTensor

	options, err := onnxrt.NewSessionOptions(m.device, m.log)
	if err != nil {
		return err
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(filepath.Join(m.dir, "model.onnx"),
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{m.inputTensor}, []ort.ArbitraryTensor{m.outputTensor},
		options)
	if err != nil {
		return fmt.Errorf("failed to create ONNX session: %w", err)
	}
	m.session = session

	return nil
}

func (m *Model) release() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
		m.inputTensor = nil
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
		m.outputTensor = nil
	}
	m.meta = nil
}

func (m *Model) IsReady() bool {
	return m.registry.IsReady()
}

func (m *Model) Status() string {
	return m.registry.Status()
}

// Detect returns the shaped detections for the encoded image bytes, in the
// model's native output order. Zero candidates is a valid empty result.
func (m *Model) Detect(_ context.Context, image []byte) ([]entity.Detection, error) {
	if !m.registry.IsReady() {
		return nil, &DetectionError{Cause: fmt.Errorf("model is not loaded")}
	}

	decoded, err := imaging.Decode(image)
	if err != nil {
		return nil, &DetectionError{Cause: err}
	}

	inputW := int(m.meta.InputShape[3])
	inputH := int(m.meta.InputShape[2])
	lb := decoded.Letterbox(inputW, inputH)

	raw, err := m.run(lb.Data)
	if err != nil {
		return nil, &DetectionError{Cause: err}
	}

	detections := shapeDetections(raw, m.meta.Classes, lb.Gain, lb.PadX, lb.PadY, decoded.Width, decoded.Height)
	m.log.Debugf("Detection complete: %d objects above threshold %.2f", len(detections), ConfidenceThreshold)
	return detections, nil
}

func (m *Model) run(input []float32) ([]rawDetection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), input)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	rows := int(m.meta.OutputShape[1])
	return parseOutput(m.outputTensor.GetData(), rows), nil
}
