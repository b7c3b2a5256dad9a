// Package captionmodel runs a pretrained vision encoder-decoder captioner
// exported to ONNX: a ViT-style image encoder plus an autoregressive text
// decoder driven by beam search.
package captionmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/net/context"

	"ProjectVision/pkg/imaging"
	"ProjectVision/pkg/onnxrt"
	"ProjectVision/pkg/registry"
)

// Generation parameters are fixed so identical weights and pixels always
// produce identical captions.
const (
	maxCaptionLength = 32
	beamWidth        = 4
)

type Captioner interface {
	Load() error
	IsReady() bool
	Status() string
	Generate(ctx context.Context, image []byte) (string, error)
}

// Metadata describes the exported model artifacts; it sits next to the ONNX
// files as tokenizer.json.
type Metadata struct {
	ImageSize       int              `json:"image_size"`
	Mean            [3]float32       `json:"mean"`
	Std             [3]float32       `json:"std"`
	Vocab           map[string]int64 `json:"vocab"`
	BOSTokenID      int64            `json:"bos_token_id"`
	EOSTokenID      int64            `json:"eos_token_id"`
	PadTokenID      int64            `json:"pad_token_id"`
	SpecialTokenIDs []int64          `json:"special_token_ids"`
	EncoderInput    string           `json:"encoder_input"`
	EncoderOutput   string           `json:"encoder_output"`
	DecoderInputs   []string         `json:"decoder_inputs"`
	DecoderOutput   string           `json:"decoder_output"`
}

func (m *Metadata) applyDefaults() {
	if m.ImageSize == 0 {
		m.ImageSize = 224
	}
	if m.Mean == [3]float32{} {
		m.Mean = [3]float32{0.5, 0.5, 0.5}
	}
	if m.Std == [3]float32{} {
		m.Std = [3]float32{0.5, 0.5, 0.5}
	}
	if m.EncoderInput == "" {
		m.EncoderInput = "pixel_values"
	}
	if m.EncoderOutput == "" {
		m.EncoderOutput = "last_hidden_state"
	}
	if len(m.DecoderInputs) == 0 {
		m.DecoderInputs = []string{"input_ids", "encoder_hidden_states"}
	}
	if m.DecoderOutput == "" {
		m.DecoderOutput = "logits"
	}
}

type Model struct {
	log      *logrus.Logger
	registry *registry.Registry
	dir      string
	device   string

	meta    *Metadata
	tok     *tokenizer
	encoder *ort.DynamicAdvancedSession
	decoder *ort.DynamicAdvancedSession
}

func New(log *logrus.Logger, dir string, device string) *Model {
	return &Model{
		log:      log,
		registry: registry.New(),
		dir:      dir,
		device:   device,
	}
}

// Load initializes the runtime, parses the tokenizer metadata and opens both
// sessions. Safe to call again once ready; a failed load leaves no partial
// handles behind.
func (m *Model) Load() error {
	if m.registry.IsReady() {
		m.log.Info("Caption model already loaded")
		return nil
	}
	m.registry.SetLoading()

	if err := m.load(); err != nil {
		m.release()
		m.registry.Fail(err)
		return err
	}

	m.registry.SetReady()
	m.log.Infof("Caption model loaded from %s", m.dir)
	return nil
}

func (m *Model) load() error {
	if err := onnxrt.Initialize(); err != nil {
		return err
	}

	metaBytes, err := os.ReadFile(filepath.Join(m.dir, "tokenizer.json"))
	if err != nil {
		return fmt.Errorf("failed to read tokenizer metadata: %w", err)
	}

	meta := &Metadata{}
	if err := json.Unmarshal(metaBytes, meta); err != nil {
		return fmt.Errorf("failed to parse tokenizer metadata: %w", err)
	}
	meta.applyDefaults()
	if len(meta.Vocab) == 0 {
		return fmt.Errorf("tokenizer metadata has an empty vocabulary")
	}
	m.meta = meta
	m.tok = newTokenizer(meta)

	options, err := onnxrt.NewSessionOptions(m.device, m.log)
	if err != nil {
		return err
	}
	defer options.Destroy()

	encoder, err := ort.NewDynamicAdvancedSession(
		filepath.Join(m.dir, "encoder.onnx"),
		[]string{meta.EncoderInput}, []string{meta.EncoderOutput}, options)
	if err != nil {
		return fmt.Errorf("failed to create encoder session: %w", err)
	}
	m.encoder = encoder

	decoder, err := ort.NewDynamicAdvancedSession(
		filepath.Join(m.dir, "decoder.onnx"),
		meta.DecoderInputs, []string{meta.DecoderOutput}, options)
	if err != nil {
		return fmt.Errorf("failed to create decoder session: %w", err)
	}
	m.decoder = decoder

	return nil
}

func (m *Model) release() {
	if m.encoder != nil {
		m.encoder.Destroy()
		m.encoder = nil
	}
	if m.decoder != nil {
		m.decoder.Destroy()
		m.decoder = nil
	}
	m.meta = nil
	m.tok = nil
}

func (m *Model) IsReady() bool {
	return m.registry.IsReady()
}

func (m *Model) Status() string {
	return m.registry.Status()
}

// Generate produces a caption for the encoded image bytes. Every failure is
// wrapped into a single GenerationError so callers only distinguish success
// from failure.
func (m *Model) Generate(_ context.Context, image []byte) (string, error) {
	if !m.registry.IsReady() {
		return "", &GenerationError{Cause: fmt.Errorf("model is not loaded")}
	}

	decoded, err := imaging.Decode(image)
	if err != nil {
		return "", &GenerationError{Cause: err}
	}

	pixels := decoded.Featurize(m.meta.ImageSize, m.meta.Mean, m.meta.Std)
	size := int64(m.meta.ImageSize)
	pixelTensor, err := ort.NewTensor(ort.NewShape(1, 3, size, size), pixels)
	if err != nil {
		return "", &GenerationError{Cause: err}
	}
	defer pixelTensor.Destroy()

	encoderOutputs := []ort.Value{nil}
	if err := m.encoder.Run([]ort.Value{pixelTensor}, encoderOutputs); err != nil {
		return "", &GenerationError{Cause: fmt.Errorf("encoder inference failed: %w", err)}
	}
	hidden := encoderOutputs[0]
	defer hidden.Destroy()

	ids, err := beamSearch(m.scoreNext(hidden), m.meta.BOSTokenID, m.meta.EOSTokenID, maxCaptionLength, beamWidth)
	if err != nil {
		return "", &GenerationError{Cause: err}
	}

	caption := strings.TrimSpace(m.tok.Detokenize(ids))
	m.log.Debugf("Generated caption: %s", caption)
	return caption, nil
}

// scoreNext runs the decoder over the full prefix and returns the logits for
// the next token position. The exported decoder carries no key-value cache,
// so each step re-feeds the prefix.
func (m *Model) scoreNext(hidden ort.Value) ScoreFunc {
	return func(ids []int64) ([]float32, error) {
		idsTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(ids))), ids)
		if err != nil {
			return nil, err
		}
		defer idsTensor.Destroy()

		outputs := []ort.Value{nil}
		if err := m.decoder.Run([]ort.Value{idsTensor, hidden}, outputs); err != nil {
			return nil, fmt.Errorf("decoder inference failed: %w", err)
		}
		logitsTensor := outputs[0].(*ort.Tensor[float32])
		defer logitsTensor.Destroy()

		shape := logitsTensor.GetShape()
		vocabSize := int(shape[len(shape)-1])
		data := logitsTensor.GetData()
		last := make([]float32, vocabSize)
		copy(last, data[len(data)-vocabSize:])
		return last, nil
	}
}
