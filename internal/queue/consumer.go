/**
 * Queue Consumer for the redaction worker
 *
 * Consumes redaction jobs from Redis via Asynq. Each job carries the scan
 * bytes inline; the worker never fetches documents over the network.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/errors"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/logging"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/processor"
)

const (
	// TaskTypeRedact is the Asynq task type for document redaction jobs
	TaskTypeRedact = "document:redact"

	// QueueName is the Asynq queue redaction jobs are routed to
	QueueName = "redaction"
)

// JobData represents the payload of a redaction task
type JobData struct {
	JobID      string                 `json:"jobId"`
	Filename   string                 `json:"filename"`
	MimeType   string                 `json:"mimeType,omitempty"`
	FileSize   int64                  `json:"fileSize,omitempty"`
	FileBuffer []byte                 `json:"fileBuffer,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Consumer handles job consumption from the Redis queue
type Consumer struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor processor.RedactionProcessorInterface
	events    *EventPublisher
	config    *ConsumerConfig
	logger    *logging.Logger
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	RedisURL          string
	Concurrency       int
	Processor         processor.RedactionProcessorInterface
	Events            *EventPublisher
	ProcessingTimeout int64 // milliseconds
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	if cfg.Processor == nil {
		return nil, fmt.Errorf("Processor is required")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := logging.NewLogger("queue")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				QueueName: 10,
				"default": 1,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				// Exponential backoff: 5s, 10s, 20s, capped at 60s
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task processing error", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	consumer := &Consumer{
		server:    server,
		mux:       mux,
		processor: cfg.Processor,
		events:    cfg.Events,
		config:    cfg,
		logger:    logger,
	}

	mux.HandleFunc(TaskTypeRedact, consumer.handleRedactDocument)

	return consumer, nil
}

// Start starts the queue consumer
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting queue consumer", "concurrency", c.config.Concurrency, "queue", QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			c.logger.Error("Queue consumer error", "error", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully
func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.Info("Stopping queue consumer")
	c.server.Shutdown()
	c.logger.Info("Queue consumer stopped")
	return nil
}

// handleRedactDocument processes one redaction job
func (c *Consumer) handleRedactDocument(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var jobData JobData
	if err := json.Unmarshal(task.Payload(), &jobData); err != nil {
		return fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	c.logger.Info("Processing redaction job",
		"jobId", jobData.JobID, "filename", jobData.Filename, "size", jobData.FileSize)

	// Mark the job as processing; failure here is non-fatal, the row is
	// created on the next update.
	if err := c.processor.UpdateJobStatus(ctx, jobData.JobID, "processing", map[string]interface{}{
		"filename": jobData.Filename,
		"mimeType": jobData.MimeType,
		"fileSize": jobData.FileSize,
	}); err != nil {
		c.logger.Warn("Failed to update status to processing", "jobId", jobData.JobID, "error", err)
	}
	c.publishEvent(ctx, jobData.JobID, "processing")

	timeout := 2 * time.Minute
	if c.config.ProcessingTimeout > 0 {
		timeout = time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}

	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.processor.ProcessDocument(processCtx, &processor.ProcessRequest{
		JobID:      jobData.JobID,
		Filename:   jobData.Filename,
		MimeType:   jobData.MimeType,
		FileSize:   jobData.FileSize,
		FileBuffer: jobData.FileBuffer,
		Metadata:   jobData.Metadata,
	})

	duration := time.Since(startTime)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			c.logger.Error("Processing timed out", "jobId", jobData.JobID, "timeout", timeout.String())

			timeoutErr := errors.NewProcessingTimeoutError(jobData.JobID, timeout, err)
			c.failJob(ctx, jobData.JobID, timeoutErr.ToMap())
			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}

		c.logger.Error("Processing failed", "jobId", jobData.JobID, "duration", duration.String(), "error", err)

		errorMap := map[string]interface{}{"error": err.Error()}
		if procErr, ok := err.(*errors.ProcessingError); ok {
			errorMap = procErr.ToMap()
		}
		c.failJob(ctx, jobData.JobID, errorMap)
		return fmt.Errorf("document redaction failed: %w", err)
	}

	c.logger.Info("Redaction job completed",
		"jobId", jobData.JobID,
		"documentType", result.DocumentType,
		"maskedFields", result.MaskedFieldCount,
		"regions", result.RegionCount,
		"duration", duration.String())

	if err := c.processor.UpdateJobStatus(ctx, jobData.JobID, "completed", map[string]interface{}{
		"documentType":     result.DocumentType,
		"maskedFieldCount": result.MaskedFieldCount,
		"regionCount":      result.RegionCount,
		"confidence":       result.Confidence,
		"processingTime":   result.ProcessingTimeMs,
		"outputPath":       result.OutputPath,
	}); err != nil {
		c.logger.Warn("Failed to update status to completed", "jobId", jobData.JobID, "error", err)
	}
	c.publishEvent(ctx, jobData.JobID, "completed")

	return nil
}

// failJob records a terminal failure and publishes the matching event
func (c *Consumer) failJob(ctx context.Context, jobID string, errorMap map[string]interface{}) {
	if err := c.processor.UpdateJobStatus(ctx, jobID, "failed", errorMap); err != nil {
		c.logger.Warn("Failed to update status to failed", "jobId", jobID, "error", err)
	}
	c.publishEvent(ctx, jobID, "failed")
}

func (c *Consumer) publishEvent(ctx context.Context, jobID, status string) {
	if c.events == nil {
		return
	}
	if err := c.events.PublishJobEvent(ctx, jobID, status); err != nil {
		c.logger.Warn("Failed to publish job event", "jobId", jobID, "status", status, "error", err)
	}
}
