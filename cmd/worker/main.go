/**
 * Redaction Worker - Main Entry Point
 *
 * Consumes redaction jobs from the Redis queue and runs the masking pipeline:
 * - Asynq consumer with per-job timeout contexts
 * - Tesseract OCR with word-level bounding boxes
 * - PII extraction and opaque mask compositing
 * - PostgreSQL persistence for job metadata (never PII values)
 * - Redis pub/sub job lifecycle events
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

	log.Printf("Redaction worker starting...")
	log.Printf("Configuration loaded: Redis=%s, Workers=%d, Languages=%s",
		cfg.RedisURL, cfg.WorkerConcurrency, cfg.TesseractLanguages)

	// Initialize job store
	log.Printf("Connecting to PostgreSQL...")
	store, err := storage.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize job store: %v", err)
	}
	defer store.Close()
	log.Printf("Job store initialized")

	// Initialize event publisher
	events, err := queue.NewEventPublisher(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer events.Close()

	// Initialize OCR engine
	ocrEngine, err := ocr.NewEngine(&ocr.EngineConfig{
		Languages: cfg.TesseractLanguages,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}

	// Initialize redaction processor
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
		OutputDir:   cfg.OutputDir,
		MaxFileSize: cfg.MaxFileSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize redaction processor: %v", err)
	}
	log.Printf("Redaction processor initialized")

	// Initialize queue consumer
	log.Printf("Connecting to Redis queue...")
	consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
		RedisURL:          cfg.RedisURL,
		Concurrency:       cfg.WorkerConcurrency,
		Processor:         proc,
		Events:            events,
		ProcessingTimeout: int64(cfg.ProcessingTimeout),
	})
	if err != nil {
		log.Fatalf("Failed to initialize queue consumer: %v", err)
	}

	ctx := context.Background()
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start queue consumer: %v", err)
	}

	log.Printf("===========================================")
	log.Printf("Redaction worker is READY")
	log.Printf("===========================================")
	log.Printf("Queue: %s", queue.QueueName)
	log.Printf("Workers: %d", cfg.WorkerConcurrency)
	log.Printf("OCR Languages: %s", cfg.TesseractLanguages)
	log.Printf("Output: %s", cfg.OutputDir)
	log.Printf("===========================================")
	log.Printf("Waiting for jobs...")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumer.Stop(stopCtx); err != nil {
		log.Printf("Error stopping queue consumer: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("Error closing job store: %v", err)
	}

	log.Printf("Shutdown complete")
}
