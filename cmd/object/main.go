package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	objectHandler "ProjectVision/internal/api/object/handler"
	objectService "ProjectVision/internal/api/object/service"
	"ProjectVision/internal/config"
	"ProjectVision/pkg/detectmodel"
	"ProjectVision/pkg/log"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber("Object Detection Service", logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithDefaultPort("8001"),
	)
	if err != nil {
		logger.Fatal(err)
	}

	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "./models"
	}

	detector := detectmodel.New(logger, filepath.Join(modelDir, "object"), os.Getenv("MODEL_DEVICE"))

	logger.Info("Application startup: loading detection model...")
	if err := detector.Load(); err != nil {
		// Serve degraded: health reports the failure, inference returns 503.
		logger.Errorf("Failed to load detection model during startup: %v", err)
	}

	objectServices := objectService.NewObjectService(logger, detector)
	objectHandlers := objectHandler.New(logger, server.Validator(), server.Middleware(), objectServices, server.Utils())
	server.Register(objectHandlers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Object detection service started successfully")

	<-sigChan
	logger.Info("Shutting down object detection service...")
}
