package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"merchsync/internal/logger"
)

// Event is the wire shape on the sync topic. Sync completions fan out to
// downstream workers (validation, AI optimization) without polling;
// optimize requests carry the product and target marketplace.
type Event struct {
	Type        string    `json:"type"`
	RunID       string    `json:"run_id,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	Marketplace string    `json:"marketplace,omitempty"`
	Synced      int       `json:"synced,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	EventSyncCompleted     = "sync.completed"
	EventOptimizeRequested = "optimize.requested"
)

type EventPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewEventPublisher(brokers, topic string, log *logger.Logger) *EventPublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &EventPublisher{writer: writer, logger: log}
}

func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sync event: %w", err)
	}

	key := event.RunID
	if key == "" {
		key = event.ProductID
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish sync event: %w", err)
	}

	p.logger.Debug("published %s event for run %s", event.Type, event.RunID)
	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
