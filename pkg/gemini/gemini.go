// Package gemini is the remote caption backend: the same captioner contract
// as the local ONNX model, served by the Gemini vision API.
package gemini

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"google.golang.org/api/option"

	"ProjectVision/pkg/registry"
)

const captionPrompt = "Describe this image in one short sentence. Respond with the caption only, no extra text."

type Captioner struct {
	log       *logrus.Logger
	registry  *registry.Registry
	modelName string
	client    *genai.Client
}

func NewCaptioner(log *logrus.Logger) *Captioner {
	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-pro-vision"
	}

	return &Captioner{
		log:       log,
		registry:  registry.New(),
		modelName: modelName,
	}
}

func (c *Captioner) Load() error {
	if c.registry.IsReady() {
		return nil
	}
	c.registry.SetLoading()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		err := errors.New("gemini API key is required")
		c.registry.Fail(err)
		return err
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		c.client = nil
		c.registry.Fail(err)
		return err
	}

	c.client = client
	c.registry.SetReady()
	c.log.Infof("Gemini caption backend ready (model %s)", c.modelName)
	return nil
}

func (c *Captioner) IsReady() bool {
	return c.registry.IsReady()
}

func (c *Captioner) Status() string {
	return c.registry.Status()
}

func (c *Captioner) Generate(ctx context.Context, image []byte) (string, error) {
	if !c.registry.IsReady() {
		return "", fmt.Errorf("gemini client is not initialized")
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0)

	img := genai.ImageData("image/jpeg", image)
	res, err := model.GenerateContent(ctx, genai.Text(captionPrompt), img)
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return strings.TrimSpace(string(text)), nil
}

func (c *Captioner) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
