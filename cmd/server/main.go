package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medocr/internal/config"
	"medocr/internal/extractor/gemini"
	"medocr/internal/handler"
	"medocr/internal/logging"
	"medocr/internal/normalizer"
	"medocr/internal/router"
	"medocr/internal/service"
)

// @title Medical OCR API
// @version 1.0
// @description Extracts structured data from medical documents using Gemini.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stdout)

	// Initialize extraction pipeline
	norm := normalizer.New(logger)
	geminiClient, err := gemini.NewClient(&cfg.Gemini, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("no server Gemini API key configured; requests must send x-gemini-api-key")
	}
	ocrSvc := service.NewOCRService(norm, geminiClient, logger)

	// Initialize handlers
	ocrH := handler.NewOCRHandler(ocrSvc, logger, cfg.Upload.MaxFileBytes())
	healthH := handler.NewHealthHandler(logger)

	// Setup router
	r := router.Setup(cfg, logger, ocrH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", cfg.Server.Port,
			"model", cfg.Gemini.Model(),
			"max_file_mb", cfg.Upload.MaxFileSizeMB,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
