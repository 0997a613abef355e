/**
 * Job producer - enqueues redaction tasks from the API server
 */

package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Producer enqueues redaction jobs onto the Redis queue
type Producer struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewProducer creates a producer from a Redis URL
func NewProducer(redisURL string) (*Producer, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &Producer{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}, nil
}

// EnqueueRedaction submits one redaction job. Retries are bounded; a job that
// fails repeatedly lands in the dead queue for inspection.
func (p *Producer) EnqueueRedaction(job *JobData, timeout time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeRedact, payload)
	_, err = p.client.Enqueue(task,
		asynq.Queue(QueueName),
		asynq.MaxRetry(3),
		asynq.Timeout(timeout),
		asynq.TaskID(job.JobID),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue redaction job: %w", err)
	}

	return nil
}

// GetStats returns queue depth statistics
func (p *Producer) GetStats() (map[string]int64, error) {
	info, err := p.inspector.GetQueueInfo(QueueName)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue info: %w", err)
	}

	return map[string]int64{
		"pending":   int64(info.Pending),
		"active":    int64(info.Active),
		"retry":     int64(info.Retry),
		"completed": int64(info.Completed),
		"failed":    int64(info.Failed),
	}, nil
}

// Close closes the underlying connections
func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		return err
	}
	return p.inspector.Close()
}
