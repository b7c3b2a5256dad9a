package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	captionHandler "ProjectVision/internal/api/caption/handler"
	captionService "ProjectVision/internal/api/caption/service"
	"ProjectVision/internal/config"
	"ProjectVision/pkg/captionmodel"
	"ProjectVision/pkg/gemini"
	"ProjectVision/pkg/log"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber("Caption Service", logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithDefaultPort("8000"),
	)
	if err != nil {
		logger.Fatal(err)
	}

	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "./models"
	}

	var captioner captionmodel.Captioner
	if os.Getenv("CAPTION_BACKEND") == "gemini" {
		captioner = gemini.NewCaptioner(logger)
	} else {
		captioner = captionmodel.New(logger, filepath.Join(modelDir, "caption"), os.Getenv("MODEL_DEVICE"))
	}

	logger.Info("Application startup: loading caption model...")
	if err := captioner.Load(); err != nil {
		// Serve degraded: health reports the failure, inference returns 503.
		logger.Errorf("Failed to load caption model during startup: %v", err)
	}

	captionServices := captionService.NewCaptionService(logger, captioner)
	captionHandlers := captionHandler.New(logger, server.Validator(), server.Middleware(), captionServices, server.Utils())
	server.Register(captionHandlers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Caption service started successfully")

	<-sigChan
	logger.Info("Shutting down caption service...")
}
