package events

import "context"

// NoOpPublisher discards every event, used when no Kafka broker is
// configured (§2.2 ambient stack: the service must run without Kafka).
type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (p *NoOpPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	return nil
}

func (p *NoOpPublisher) Close() error {
	return nil
}
