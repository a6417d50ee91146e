package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "chapterhouse/contexts/chapter-operations/ballot-engine/application"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/commands"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

const defaultOutboxBatchSize = 50

// OutboxRelay drains pending outbox rows and publishes them to the event
// bus. Publish and mark-sent are not atomic, so consumers must tolerate the
// occasional duplicate after a crash between the two steps.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RelayOnce processes one batch and reports how many messages went out.
func (r OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultOutboxBatchSize
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload is not a valid envelope",
				"event", "outbox_relay_decode_failed",
				"module", "chapter-operations/ballot-engine",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			// Poison message: mark sent so it cannot wedge the relay.
			if markErr := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, r.Clock.Now().UTC()); markErr != nil {
				return sent, markErr
			}
			continue
		}

		if err := r.Publisher.Publish(ctx, commands.TopicBallotEvents, envelope); err != nil {
			return sent, err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, r.Clock.Now().UTC()); err != nil {
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		logger.Info("outbox batch relayed",
			"event", "outbox_relayed",
			"module", "chapter-operations/ballot-engine",
			"layer", "worker",
			"sent", sent,
		)
	}
	return sent, nil
}
