/**
 * Job events over Redis pub/sub
 *
 * Publishes job lifecycle transitions on a well-known channel so the API can
 * stream progress to clients without polling PostgreSQL. Events carry job ID
 * and status only, never document content.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis pub/sub channel for job lifecycle events
const EventsChannel = "redaction:events"

// JobEvent is one job lifecycle transition
type JobEvent struct {
	Event     string `json:"event"` // job:processing, job:completed, job:failed
	JobID     string `json:"jobId"`
	Timestamp string `json:"timestamp"`
}

// EventPublisher publishes job lifecycle events to Redis
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher creates an event publisher from a Redis URL
func NewEventPublisher(redisURL string) (*EventPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &EventPublisher{client: client}, nil
}

// PublishJobEvent publishes one lifecycle transition for a job
func (p *EventPublisher) PublishJobEvent(ctx context.Context, jobID, status string) error {
	event := JobEvent{
		Event:     fmt.Sprintf("job:%s", status),
		JobID:     jobID,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.client.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	return nil
}

// Subscribe returns a subscription to the job events channel. The caller owns
// the subscription and must close it.
func (p *EventPublisher) Subscribe(ctx context.Context) *redis.PubSub {
	return p.client.Subscribe(ctx, EventsChannel)
}

// Ping checks Redis connectivity
func (p *EventPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (p *EventPublisher) Close() error {
	return p.client.Close()
}
