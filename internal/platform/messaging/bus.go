package messaging

import (
	"context"
	"log/slog"
	"sync"

	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

const subscriberBuffer = 128

// subscriber is one consumer-group attachment to a topic.
type subscriber struct {
	group string
	ch    chan ports.EventEnvelope
}

// Bus is the in-process event bus between the outbox relay and topic
// consumers. Topic fan-out matches the broker contract the platform will
// eventually target, so relay and consumer code stays broker-agnostic.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]*subscriber
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		topics: make(map[string][]*subscriber),
		logger: logger,
	}
}

// Publish delivers the event to every subscriber of the topic. A subscriber
// whose buffer is full is skipped rather than blocking the relay.
func (b *Bus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	b.mu.RLock()
	subs := append([]*subscriber(nil), b.topics[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.ch <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					"event", "bus_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"consumer_group", sub.group,
					"event_id", event.EventID,
				)
			}
		}
	}

	if b.logger != nil {
		b.logger.Info("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe attaches a handler to the topic until ctx is cancelled. Handler
// errors are logged and do not detach the subscriber.
func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	sub := &subscriber{
		group: consumerGroup,
		ch:    make(chan ports.EventEnvelope, subscriberBuffer),
	}

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], sub)
	b.mu.Unlock()

	go b.consume(ctx, topic, sub, handler)
	return nil
}

func (b *Bus) consume(
	ctx context.Context,
	topic string,
	sub *subscriber,
	handler func(context.Context, ports.EventEnvelope) error,
) {
	for {
		select {
		case <-ctx.Done():
			b.detach(topic, sub)
			return
		case event := <-sub.ch:
			if err := handler(ctx, event); err != nil && b.logger != nil {
				b.logger.Error("consumer handler failed",
					"event", "bus_consume_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"consumer_group", sub.group,
					"event_id", event.EventID,
					"event_type", event.EventType,
					"error", err.Error(),
				)
			}
		}
	}
}

func (b *Bus) detach(topic string, target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.topics[topic][:0]
	for _, sub := range b.topics[topic] {
		if sub != target {
			kept = append(kept, sub)
		}
	}
	b.topics[topic] = kept
}

func (b *Bus) subscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}
