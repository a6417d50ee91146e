package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

func TestBusDeliversToTopicSubscribers(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	require.NoError(t, bus.Subscribe(ctx, "chapter-operations.ballot.events", "ballot-audit",
		func(_ context.Context, event ports.EventEnvelope) error {
			received <- event
			return nil
		}))

	other := make(chan ports.EventEnvelope, 1)
	require.NoError(t, bus.Subscribe(ctx, "unrelated.topic", "ballot-audit",
		func(_ context.Context, event ports.EventEnvelope) error {
			other <- event
			return nil
		}))

	require.NoError(t, bus.Publish(ctx, "chapter-operations.ballot.events", ports.EventEnvelope{
		EventID:   "event-1",
		EventType: "chapter.ballot.vote_cast",
	}))

	select {
	case event := <-received:
		require.Equal(t, "event-1", event.EventID)
		require.Equal(t, "chapter.ballot.vote_cast", event.EventType)
	case <-time.After(time.Second):
		t.Fatal("subscribed handler never received the event")
	}

	select {
	case <-other:
		t.Fatal("event crossed topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusDetachesSubscriberOnCancel(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, bus.Subscribe(ctx, "chapter-operations.ballot.events", "ballot-audit",
		func(context.Context, ports.EventEnvelope) error { return nil }))
	require.Equal(t, 1, bus.subscriberCount("chapter-operations.ballot.events"))

	cancel()
	require.Eventually(t, func() bool {
		return bus.subscriberCount("chapter-operations.ballot.events") == 0
	}, time.Second, 10*time.Millisecond)
}
