/**
 * Redaction API Server - Main Entry Point
 *
 * HTTP front end for the redaction service:
 * - POST /api/v1/redact   synchronous redaction, returns the masked image
 * - POST /api/v1/jobs     asynchronous redaction via the worker queue
 * - GET  /api/v1/jobs/:id job metadata lookup
 * - GET  /healthz         dependency readiness
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/config"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/pii"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/processor"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/queue"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/server"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Redaction API server starting...")

	// Initialize job store
	store, err := storage.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize job store: %v", err)
	}
	defer store.Close()

	// Initialize event publisher (health checks and future streaming)
	events, err := queue.NewEventPublisher(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer events.Close()

	// Initialize job producer
	producer, err := queue.NewProducer(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize job producer: %v", err)
	}
	defer producer.Close()

	// Initialize OCR engine and processor for the synchronous path
	ocrEngine, err := ocr.NewEngine(&ocr.EngineConfig{
		Languages: cfg.TesseractLanguages,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}

	proc, err := processor.NewRedactionProcessor(&processor.ProcessorConfig{
		OCREngine: ocrEngine,
		Store:     store,
		Extraction: pii.Config{
			FuzzyMaxDistance: cfg.FuzzyMaxDistance,
			MaskPadding:      cfg.MaskPadding,
			PhotoRegion: pii.PhotoRegion{
				Left:   cfg.PhotoRegionLeft,
				Top:    cfg.PhotoRegionTop,
				Width:  cfg.PhotoRegionWidth,
				Height: cfg.PhotoRegionHeight,
			},
		},
		MaxFileSize: cfg.MaxFileSize,
		// OutputDir intentionally unset: synchronous results are returned
		// inline, only the worker persists output files.
	})
	if err != nil {
		log.Fatalf("Failed to initialize redaction processor: %v", err)
	}

	// Initialize API server
	srv := server.NewServer(&server.ServerConfig{
		Config:    cfg,
		Processor: proc,
		Producer:  producer,
		Store:     store,
		Events:    events,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	log.Printf("Redaction API server listening on %s", cfg.ServerAddr)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(stopCtx); err != nil {
		log.Printf("Error stopping API server: %v", err)
	}

	log.Printf("Shutdown complete")
}
