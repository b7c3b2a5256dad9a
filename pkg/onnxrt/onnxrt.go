// Package onnxrt owns process-wide ONNX Runtime setup shared by the model
// packages.
package onnxrt

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	initOnce sync.Once
	initErr  error
)

// Initialize prepares the ONNX Runtime environment once per process. The
// shared library location can be overridden with ONNXRUNTIME_LIB.
func Initialize() error {
	initOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_LIB"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			initErr = fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	})
	return initErr
}

// NewSessionOptions builds session options for the requested device. "cuda"
// attempts the CUDA execution provider and falls back to CPU when it cannot
// be appended.
func NewSessionOptions(device string, logger *logrus.Logger) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}

	if device != "cuda" {
		return options, nil
	}

	cudaOptions, err := ort.NewCUDAProviderOptions()
	if err != nil {
		logger.Warnf("CUDA provider unavailable, falling back to CPU: %v", err)
		return options, nil
	}
	defer cudaOptions.Destroy()

	if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
		logger.Warnf("Failed to enable CUDA execution provider, falling back to CPU: %v", err)
		return options, nil
	}

	logger.Info("CUDA execution provider enabled")
	return options, nil
}
