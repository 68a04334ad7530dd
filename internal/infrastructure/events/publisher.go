// Package events publishes plan-lifecycle domain events (plan solved,
// scenario reloaded/deleted, stop relocated) to Kafka, with a no-op
// fallback when no broker is configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher publishes a named event with its payload.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// Event type names emitted by the plan-lifecycle engine.
const (
	EventPlanOptimized     = "plan.optimized"
	EventPlanMaterialized  = "plan.materialized"
	EventScenarioCreated   = "scenario.created"
	EventScenarioReloaded  = "scenario.reloaded"
	EventScenarioDeleted   = "scenario.deleted"
	EventStopLocationMoved = "stop.location_moved"
)

// KafkaPublisher implements Publisher using a kafka-go writer.
type KafkaPublisher struct {
	writer *kafka.Writer
	source string
}

// NewKafkaPublisher creates a Kafka-backed publisher.
func NewKafkaPublisher(brokers []string, topic, source string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &KafkaPublisher{writer: writer, source: source}
}

// Publish marshals an event envelope and writes it to Kafka, keyed by
// event type for partition locality.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	envelope := map[string]interface{}{
		"event_type": eventType,
		"data":       data,
		"timestamp":  time.Now().UTC(),
		"source":     p.source,
		"version":    "1.0",
	}

	eventData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(eventType),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("events: publish %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Health checks if the Kafka broker is reachable.
func (p *KafkaPublisher) Health(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.writer.Addr.String())
	if err != nil {
		return fmt.Errorf("events: kafka health check failed: %w", err)
	}
	defer conn.Close()
	return nil
}
